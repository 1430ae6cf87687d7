package services_test

import (
	"context"
	"testing"

	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/services"
)

// End-to-end walk through the common "new user organizes documents" flow.
func TestScenario_FolderWithPDFListing(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage(t)
	owner := createTestUser(t, db, "alice@example.com")
	folderSvc := services.NewFolderService(db)
	fileSvc := services.NewFileService(db, store)
	ctx := context.Background()

	docs, err := folderSvc.Create(ctx, owner.ID, "Docs", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	uploaded := uploadTestFile(t, fileSvc, owner.ID, &docs.ID, "report.pdf", "application/octet-stream", "pdf-bytes")

	files, err := fileSvc.List(ctx, owner.ID, &docs.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file in Docs, got %d", len(files))
	}
	if files[0].ID != uploaded.ID {
		t.Errorf("expected uploaded file in listing")
	}
	if files[0].MimeType != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", files[0].MimeType)
	}

	// The root listing stays empty; the file lives inside Docs.
	rootFiles, err := fileSvc.List(ctx, owner.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rootFiles) != 0 {
		t.Errorf("expected empty root, got %d files", len(rootFiles))
	}
}

// End-to-end walk through "delete a file and find it in the trash".
func TestScenario_TrashListing(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage(t)
	owner := createTestUser(t, db, "alice@example.com")
	folderSvc := services.NewFolderService(db)
	fileSvc := services.NewFileService(db, store)
	trashSvc := services.NewTrashService(db, store)
	ctx := context.Background()

	file := uploadTestFile(t, fileSvc, owner.ID, nil, "old.txt", "text/plain", "stale")
	folder, err := folderSvc.Create(ctx, owner.ID, "Archive", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := fileSvc.SoftDelete(ctx, owner.ID, file.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := folderSvc.SoftDelete(ctx, owner.ID, folder.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	trash, err := trashSvc.List(ctx, owner.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(trash.Files) != 1 || trash.Files[0].ID != file.ID {
		t.Errorf("expected trashed file in trash listing, got %d files", len(trash.Files))
	}
	if len(trash.Folders) != 1 || trash.Folders[0].ID != folder.ID {
		t.Errorf("expected trashed folder in trash listing, got %d folders", len(trash.Folders))
	}

	// Normal listings no longer show either item.
	liveFiles, err := fileSvc.List(ctx, owner.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(liveFiles) != 0 {
		t.Errorf("expected no live files, got %d", len(liveFiles))
	}
	liveFolders, err := folderSvc.List(ctx, owner.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(liveFolders) != 0 {
		t.Errorf("expected no live folders, got %d", len(liveFolders))
	}
}

// End-to-end walk through "share a file by email and open the link".
func TestScenario_ShareByEmailAndResolveLink(t *testing.T) {
	db, shareSvc, mailer := newShareTestEnv(t)
	owner := createTestUser(t, db, "alice@example.com")
	file := createTestFile(t, db, owner.ID, "report.pdf")
	ctx := context.Background()

	result, err := shareSvc.ShareByEmail(ctx, owner.ID, fileRef(file.ID), "bob@example.com", models.ShareRoleViewer)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a share token")
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "bob@example.com" {
		t.Errorf("expected notification to bob@example.com, got %v", mailer.sent)
	}

	link, err := shareSvc.ResolveLink(ctx, result.Token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if link == nil {
		t.Fatalf("expected the token to resolve")
	}
	if link.ResourceType != models.ResourceFile || link.ResourceID != file.ID {
		t.Errorf("expected link to point at the shared file")
	}
}
