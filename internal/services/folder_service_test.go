package services_test

import (
	"context"
	"testing"

	"github.com/AahilGazali/cloud-drive-backend/internal/apperrors"
	"github.com/AahilGazali/cloud-drive-backend/internal/services"
	"github.com/google/uuid"
)

func TestFolderService_Create_Root(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	svc := services.NewFolderService(db)

	folder, err := svc.Create(context.Background(), owner.ID, "Docs", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if folder.ID == uuid.Nil {
		t.Errorf("expected generated id")
	}
	if folder.ParentID != nil {
		t.Errorf("expected root folder, got parent %v", folder.ParentID)
	}
}

func TestFolderService_Create_BlankName(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	svc := services.NewFolderService(db)

	_, err := svc.Create(context.Background(), owner.ID, "   ", nil)
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFolderService_Create_ForeignParent(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	svc := services.NewFolderService(db)

	parent, err := svc.Create(context.Background(), alice.ID, "Docs", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = svc.Create(context.Background(), bob.ID, "Sneaky", &parent.ID)
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not-found for foreign parent, got %v", err)
	}
}

func TestFolderService_List_RootOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	svc := services.NewFolderService(db)
	ctx := context.Background()

	root, _ := svc.Create(ctx, owner.ID, "Docs", nil)
	if _, err := svc.Create(ctx, owner.ID, "Nested", &root.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	deleted, _ := svc.Create(ctx, owner.ID, "Gone", nil)
	if _, err := svc.SoftDelete(ctx, owner.ID, deleted.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	folders, err := svc.List(ctx, owner.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(folders) != 1 {
		t.Fatalf("expected 1 root folder, got %d", len(folders))
	}
	if folders[0].Name != "Docs" {
		t.Errorf("expected Docs, got %s", folders[0].Name)
	}
}

func TestFolderService_Rename(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	svc := services.NewFolderService(db)
	ctx := context.Background()

	folder, _ := svc.Create(ctx, owner.ID, "Docs", nil)
	renamed, err := svc.Rename(ctx, owner.ID, folder.ID, "Documents")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if renamed.Name != "Documents" {
		t.Errorf("expected Documents, got %s", renamed.Name)
	}
}

func TestFolderService_Move_RejectsSelfParent(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	svc := services.NewFolderService(db)
	ctx := context.Background()

	folder, _ := svc.Create(ctx, owner.ID, "Docs", nil)
	_, err := svc.Move(ctx, owner.ID, folder.ID, &folder.ID)
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFolderService_Move_RejectsCycle(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	svc := services.NewFolderService(db)
	ctx := context.Background()

	a, _ := svc.Create(ctx, owner.ID, "a", nil)
	b, _ := svc.Create(ctx, owner.ID, "b", &a.ID)
	c, _ := svc.Create(ctx, owner.ID, "c", &b.ID)

	// Moving a under its own grandchild would close a loop.
	_, err := svc.Move(ctx, owner.ID, a.ID, &c.ID)
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFolderService_Move_ToCurrentParentIsNoOp(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	svc := services.NewFolderService(db)
	ctx := context.Background()

	parent, _ := svc.Create(ctx, owner.ID, "parent", nil)
	child, _ := svc.Create(ctx, owner.ID, "child", &parent.ID)

	moved, err := svc.Move(ctx, owner.ID, child.ID, &parent.ID)
	if err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != parent.ID {
		t.Errorf("expected parent unchanged")
	}
}

func TestFolderService_Move_ToRoot(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "alice@example.com")
	svc := services.NewFolderService(db)
	ctx := context.Background()

	parent, _ := svc.Create(ctx, owner.ID, "parent", nil)
	child, _ := svc.Create(ctx, owner.ID, "child", &parent.ID)

	moved, err := svc.Move(ctx, owner.ID, child.ID, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if moved.ParentID != nil {
		t.Errorf("expected root placement, got %v", moved.ParentID)
	}
}

func TestFolderService_SoftDelete_NotFoundForForeignOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	svc := services.NewFolderService(db)
	ctx := context.Background()

	folder, _ := svc.Create(ctx, alice.ID, "Docs", nil)
	_, err := svc.SoftDelete(ctx, bob.ID, folder.ID)
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
