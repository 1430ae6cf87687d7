package models

import (
	"fmt"

	"github.com/google/uuid"
)

type ResourceType string

const (
	ResourceFile   ResourceType = "file"
	ResourceFolder ResourceType = "folder"
)

func (t ResourceType) IsValid() bool {
	return t == ResourceFile || t == ResourceFolder
}

// ResourceRef identifies a shareable resource. Identifiers are normalized to
// a (type, uuid) pair once at the API boundary; everything below works with
// this single representation.
type ResourceRef struct {
	Type ResourceType
	ID   uuid.UUID
}

// ParseResourceRef validates the raw type/id pair coming off the wire.
func ParseResourceRef(rawType, rawID string) (ResourceRef, error) {
	t := ResourceType(rawType)
	if !t.IsValid() {
		return ResourceRef{}, fmt.Errorf("invalid resource type %q", rawType)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return ResourceRef{}, fmt.Errorf("invalid resource id %q", rawID)
	}
	return ResourceRef{Type: t, ID: id}, nil
}
