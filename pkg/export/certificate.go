package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// CertificateData carries everything printed on an issued certificate.
type CertificateData struct {
	ReferenceID           string
	SubjectName           string
	SubjectNIC            string
	CertificateType       string
	Relationship          string
	ApplicantName         string
	IssuedAt              time.Time
	OfficerName           string
	District              string
	DivisionalSecretariat string
	GNDivision            string
	VerifyURL             string
}

// CertificateRenderer produces the official certificate PDF with an
// embedded QR code pointing at the public verification URL.
type CertificateRenderer struct{}

// NewCertificateRenderer constructs a renderer.
func NewCertificateRenderer() *CertificateRenderer {
	return &CertificateRenderer{}
}

// Render creates the certificate PDF.
func (r *CertificateRenderer) Render(data CertificateData) ([]byte, error) {
	if data.ReferenceID == "" {
		return nil, fmt.Errorf("certificate requires a reference id")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "GRAMA NILADHARI DIVISION", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s Divisional Secretariat, %s District", data.DivisionalSecretariat, data.District), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("GN Division: %s", data.GNDivision), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, certificateTitle(data.CertificateType), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Reference No", data.ReferenceID},
		{"Full Name", data.SubjectName},
		{"NIC Number", data.SubjectNIC},
		{"Certificate Type", data.CertificateType},
		{"Date of Issue", data.IssuedAt.Format("2006-01-02")},
	}
	if data.Relationship != "" && data.Relationship != "Self" {
		rows = append(rows, [2]string{"Requested By", fmt.Sprintf("%s (%s)", data.ApplicantName, data.Relationship)})
	}

	pdf.SetFont("Arial", "", 11)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(55, 9, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(115, 9, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, "This is to certify that the above particulars have been verified against the records held at this office and found to be correct.", "", "L", false)
	pdf.Ln(10)

	if data.VerifyURL != "" {
		png, err := qrcode.Encode(data.VerifyURL, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("encode verification qr: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("verify-qr", 20, pdf.GetY(), 32, 32, false, opts, 0, "")
		pdf.SetXY(58, pdf.GetY()+10)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, fmt.Sprintf("Scan to verify authenticity or visit:\n%s", data.VerifyURL), "", "L", false)
		pdf.Ln(16)
	}

	pdf.SetY(-60)
	pdf.CellFormat(0, 6, "...............................................", "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, data.OfficerName, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Grama Niladhari", "", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func certificateTitle(certificateType string) string {
	switch certificateType {
	case "RESIDENCY":
		return "CERTIFICATE OF RESIDENCY"
	case "CHARACTER":
		return "CERTIFICATE OF CHARACTER"
	case "BIRTH_COPY":
		return "CERTIFIED COPY OF BIRTH RECORD"
	case "MARRIAGE_COPY":
		return "CERTIFIED COPY OF MARRIAGE RECORD"
	default:
		return "CERTIFICATE"
	}
}
