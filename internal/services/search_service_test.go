package services_test

import (
	"context"
	"testing"

	"github.com/AahilGazali/cloud-drive-backend/internal/services"
)

func TestSearchService_BlankTerm(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	svc := services.NewSearchService(db)

	results, err := svc.Search(context.Background(), owner.ID, "   ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if results.Files == nil || results.Folders == nil {
		t.Fatalf("expected non-nil slices")
	}
	if len(results.Files) != 0 || len(results.Folders) != 0 {
		t.Errorf("expected empty results for blank term")
	}
}

func TestSearchService_CaseInsensitiveSubstring(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage(t)
	owner := createTestUser(t, db, "alice@example.com")
	folderSvc := services.NewFolderService(db)
	fileSvc := services.NewFileService(db, store)
	searchSvc := services.NewSearchService(db)
	ctx := context.Background()

	if _, err := folderSvc.Create(ctx, owner.ID, "Quarterly Reports", nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	uploadTestFile(t, fileSvc, owner.ID, nil, "REPORT-final.pdf", "application/pdf", "x")
	uploadTestFile(t, fileSvc, owner.ID, nil, "notes.txt", "text/plain", "x")

	results, err := searchSvc.Search(ctx, owner.ID, "report")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results.Files) != 1 {
		t.Errorf("expected 1 file match, got %d", len(results.Files))
	}
	if len(results.Folders) != 1 {
		t.Errorf("expected 1 folder match, got %d", len(results.Folders))
	}
}

func TestSearchService_ScopedToOwnerAndLiveItems(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	fileSvc := services.NewFileService(db, store)
	searchSvc := services.NewSearchService(db)
	ctx := context.Background()

	uploadTestFile(t, fileSvc, bob.ID, nil, "report.pdf", "application/pdf", "x")
	trashed := uploadTestFile(t, fileSvc, alice.ID, nil, "report-old.pdf", "application/pdf", "x")
	if _, err := fileSvc.SoftDelete(ctx, alice.ID, trashed.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	results, err := searchSvc.Search(ctx, alice.ID, "report")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results.Files) != 0 {
		t.Errorf("expected no matches for alice, got %d", len(results.Files))
	}
}

func TestSearchService_LiteralLikeMetacharacters(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage(t)
	owner := createTestUser(t, db, "alice@example.com")
	fileSvc := services.NewFileService(db, store)
	searchSvc := services.NewSearchService(db)
	ctx := context.Background()

	uploadTestFile(t, fileSvc, owner.ID, nil, "100%_done.txt", "text/plain", "x")
	uploadTestFile(t, fileSvc, owner.ID, nil, "plain.txt", "text/plain", "x")

	results, err := searchSvc.Search(ctx, owner.ID, "100%")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results.Files) != 1 {
		t.Errorf("expected %% treated literally, got %d matches", len(results.Files))
	}
}
