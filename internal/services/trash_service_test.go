package services_test

import (
	"context"
	"testing"

	"github.com/AahilGazali/cloud-drive-backend/internal/apperrors"
	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/services"
	"gorm.io/gorm"
)

func TestTrashService_List_EmptyIsNonNil(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage(t)
	owner := createTestUser(t, db, "alice@example.com")
	svc := services.NewTrashService(db, store)

	contents, err := svc.List(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if contents.Files == nil || contents.Folders == nil {
		t.Fatalf("expected non-nil slices, got %+v", contents)
	}
	if len(contents.Files) != 0 || len(contents.Folders) != 0 {
		t.Errorf("expected empty trash")
	}
}

func TestTrashService_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage(t)
	owner := createTestUser(t, db, "alice@example.com")
	trashSvc := services.NewTrashService(db, store)
	folderSvc := services.NewFolderService(db)
	ctx := context.Background()

	folder, err := folderSvc.Create(ctx, owner.ID, "Docs", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := folderSvc.SoftDelete(ctx, owner.ID, folder.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Trashed folder shows up in the trash and not in the root listing.
	contents, err := trashSvc.List(ctx, owner.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(contents.Folders) != 1 || contents.Folders[0].Name != "Docs" {
		t.Fatalf("expected Docs in trash, got %+v", contents.Folders)
	}
	live, err := folderSvc.List(ctx, owner.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(live) != 0 {
		t.Errorf("expected trashed folder hidden from root listing")
	}

	// Restore makes it visible again.
	if err := trashSvc.Restore(ctx, owner.ID, folderRef(folder.ID)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	live, _ = folderSvc.List(ctx, owner.ID, nil)
	if len(live) != 1 {
		t.Errorf("expected restored folder in root listing")
	}
	contents, _ = trashSvc.List(ctx, owner.ID)
	if len(contents.Folders) != 0 {
		t.Errorf("expected empty trash after restore")
	}
}

func TestTrashService_Restore_LiveItemIsNotFound(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage(t)
	owner := createTestUser(t, db, "alice@example.com")
	trashSvc := services.NewTrashService(db, store)
	folderSvc := services.NewFolderService(db)
	ctx := context.Background()

	folder, _ := folderSvc.Create(ctx, owner.ID, "Docs", nil)
	err := trashSvc.Restore(ctx, owner.ID, folderRef(folder.ID))
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not-found for live item, got %v", err)
	}
}

func TestTrashService_Purge_File(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage(t)
	owner := createTestUser(t, db, "alice@example.com")
	trashSvc := services.NewTrashService(db, store)
	fileSvc := services.NewFileService(db, store)
	ctx := context.Background()

	file := uploadTestFile(t, fileSvc, owner.ID, nil, "a.txt", "text/plain", "hello")
	if _, err := fileSvc.SoftDelete(ctx, owner.ID, file.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := trashSvc.Purge(ctx, owner.ID, fileRef(file.ID)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.has(file.Path) {
		t.Errorf("expected blob removed on purge")
	}
	var count int64
	db.Model(&models.File{}).Where("id = ?", file.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected row removed on purge")
	}
}

func TestTrashService_Purge_BlobFailureStillRemovesRow(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage(t)
	owner := createTestUser(t, db, "alice@example.com")
	trashSvc := services.NewTrashService(db, store)
	fileSvc := services.NewFileService(db, store)
	ctx := context.Background()

	file := uploadTestFile(t, fileSvc, owner.ID, nil, "a.txt", "text/plain", "hello")
	if _, err := fileSvc.SoftDelete(ctx, owner.ID, file.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	store.failDel = true
	if err := trashSvc.Purge(ctx, owner.ID, fileRef(file.ID)); err != nil {
		t.Fatalf("blob failure must not block the purge, got %v", err)
	}
	err := db.First(&models.File{}, "id = ?", file.ID).Error
	if err != gorm.ErrRecordNotFound {
		t.Errorf("expected row gone, got %v", err)
	}
}

func TestTrashService_Purge_NotTrashed(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage(t)
	owner := createTestUser(t, db, "alice@example.com")
	trashSvc := services.NewTrashService(db, store)
	fileSvc := services.NewFileService(db, store)
	ctx := context.Background()

	file := uploadTestFile(t, fileSvc, owner.ID, nil, "a.txt", "text/plain", "hello")
	err := trashSvc.Purge(ctx, owner.ID, fileRef(file.ID))
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not-found for live file, got %v", err)
	}
}
