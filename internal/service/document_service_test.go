package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/villageflow/villageflow-api/internal/models"
	appErrors "github.com/villageflow/villageflow-api/pkg/errors"
	"github.com/villageflow/villageflow-api/pkg/storage"
)

type documentRepoStub struct {
	byID map[string]*models.StoredDocument
}

func newDocumentRepoStub() *documentRepoStub {
	return &documentRepoStub{byID: make(map[string]*models.StoredDocument)}
}

func (r *documentRepoStub) Create(ctx context.Context, doc *models.StoredDocument) error {
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	r.byID[doc.ID] = doc
	return nil
}

func (r *documentRepoStub) GetByID(ctx context.Context, id string) (*models.StoredDocument, error) {
	if doc, ok := r.byID[id]; ok {
		return doc, nil
	}
	return nil, sql.ErrNoRows
}

func (r *documentRepoStub) ListByOwner(ctx context.Context, ownerID string) ([]models.StoredDocument, error) {
	result := make([]models.StoredDocument, 0, len(r.byID))
	for _, doc := range r.byID {
		if doc.OwnerID == ownerID {
			result = append(result, *doc)
		}
	}
	return result, nil
}

func newTestDocumentService(t *testing.T) (*DocumentService, *documentRepoStub) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	repo := newDocumentRepoStub()
	svc := NewDocumentService(repo, files, signer, nil, DocumentConfig{
		MaxFileSizeBytes: 1 << 20,
		AllowedMIMEs:     []string{"application/pdf", "image/jpeg"},
	})
	return svc, repo
}

func TestDocumentServiceUploadAndDownload(t *testing.T) {
	svc, _ := newTestDocumentService(t)
	actor := citizenClaims()

	content := "%PDF-1.4 proof of address"
	resp, err := svc.Upload(context.Background(), actor, models.DocumentAddressProof,
		"proof.pdf", "application/pdf", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	signed, err := svc.SignedURL(context.Background(), resp.ID, officerClaims())
	require.NoError(t, err)
	require.Contains(t, signed.URL, resp.ID)

	token := signed.URL[strings.Index(signed.URL, "token=")+len("token="):]
	doc, file, err := svc.OpenByToken(context.Background(), resp.ID, token)
	require.NoError(t, err)
	defer file.Close()
	require.Equal(t, "proof.pdf", doc.Filename)

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	require.Equal(t, content, string(data))
}

func TestDocumentServiceRejectsBadUploads(t *testing.T) {
	svc, _ := newTestDocumentService(t)
	actor := citizenClaims()

	_, err := svc.Upload(context.Background(), actor, models.DocumentAddressProof,
		"malware.exe", "application/octet-stream", 100, strings.NewReader("x"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Upload(context.Background(), actor, models.DocumentAddressProof,
		"huge.pdf", "application/pdf", 10<<20, strings.NewReader("x"))
	require.Error(t, err)
}

func TestDocumentServiceSignedURLScope(t *testing.T) {
	svc, repo := newTestDocumentService(t)

	repo.byID["doc-1"] = &models.StoredDocument{ID: "doc-1", OwnerID: "user-1", StoredPath: "documents/doc-1.pdf"}

	// owner and officer are allowed
	_, err := svc.SignedURL(context.Background(), "doc-1", citizenClaims())
	require.NoError(t, err)
	_, err = svc.SignedURL(context.Background(), "doc-1", officerClaims())
	require.NoError(t, err)

	// other citizens are not
	other := &models.JWTClaims{UserID: "user-2", Role: models.RoleCitizen}
	_, err = svc.SignedURL(context.Background(), "doc-1", other)
	require.Error(t, err)

	// forged tokens fail
	_, _, err = svc.OpenByToken(context.Background(), "doc-1", "bogus.token.value.here")
	require.Error(t, err)
}
