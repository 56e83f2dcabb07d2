// Affinitas - Similarity Ranking Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/affinitas

package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/affinitas/internal/recommend"
)

// SchemaVersion is the current event schema version.
// Increment this when making breaking changes to CatalogEvent.
const SchemaVersion = 1

// Kind constants for catalog event subjects.
const (
	// KindUpsert indicates an entity was created or replaced.
	KindUpsert = "upsert"
	// KindDelete indicates an entity was removed.
	KindDelete = "delete"
	// KindLoad indicates a bulk catalog replacement.
	KindLoad = "load"
)

// Namespace constants matching the vector store namespaces.
const (
	// NamespaceItems is the catalog item namespace.
	NamespaceItems = "items"
	// NamespaceUsers is the user preference namespace.
	NamespaceUsers = "users"
)

// Source constants identifying where a catalog change originated.
const (
	// SourceAPI indicates the change came through the HTTP API.
	SourceAPI = "api"
	// SourceSeed indicates the change came from demo data seeding.
	SourceSeed = "seed"
)

// TopicPrefix is the leading segment of every catalog event subject.
const TopicPrefix = "catalog"

// TopicWildcard matches every catalog event subject. Only NATS subscribers
// understand wildcards; the in-process bus needs exact topics from Topics.
const TopicWildcard = "catalog.>"

// Topics returns every concrete catalog event subject in a stable order.
// The in-process GoChannel bus matches topics exactly, so consumers register
// one handler per subject rather than a single wildcard subscription.
func Topics() []string {
	topics := make([]string, 0, 6)
	for _, ns := range []string{NamespaceItems, NamespaceUsers} {
		for _, kind := range []string{KindUpsert, KindDelete, KindLoad} {
			topics = append(topics, TopicPrefix+"."+ns+"."+kind)
		}
	}
	return topics
}

// CatalogEvent records a mutation of the item or user catalog.
// Upsert events carry the full entity payload so that a consumer on another
// instance can replay the mutation into its own store; delete events carry
// only the entity ID, and load events carry only the entity count.
//
// Schema versioning:
//   - SchemaVersion field tracks the event format version
//   - Consumers should handle older schema versions for backward compatibility
//   - Version 1: Initial schema with all current fields
type CatalogEvent struct {
	// Schema version for forward/backward compatibility
	SchemaVersion int `json:"schema_version,omitempty"` // Event schema version (default: 1)

	// Identification
	EventID       string    `json:"event_id"`
	Kind          string    `json:"kind"`      // upsert, delete, load
	Namespace     string    `json:"namespace"` // items, users
	Source        string    `json:"source,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"` // Request correlation for tracing
	Timestamp     time.Time `json:"timestamp"`

	// Entity payload
	EntityID int              `json:"entity_id,omitempty"` // Item or user ID (upsert, delete)
	Title    string           `json:"title,omitempty"`     // Item display title (item upserts only)
	Vector   recommend.Vector `json:"vector,omitempty"`    // Feature vector (upserts only)

	// Count is the number of entities in a bulk load.
	Count int `json:"count,omitempty"`
}

// NewItemUpsertEvent creates an event for an item create or replace.
func NewItemUpsertEvent(item recommend.Item, source string) *CatalogEvent {
	e := newEvent(KindUpsert, NamespaceItems, source)
	e.EntityID = item.ID
	e.Title = item.Title
	e.Vector = item.Vector.Clone()
	return e
}

// NewItemDeleteEvent creates an event for an item removal.
func NewItemDeleteEvent(id int, source string) *CatalogEvent {
	e := newEvent(KindDelete, NamespaceItems, source)
	e.EntityID = id
	return e
}

// NewUserUpsertEvent creates an event for a user create or replace.
func NewUserUpsertEvent(user recommend.User, source string) *CatalogEvent {
	e := newEvent(KindUpsert, NamespaceUsers, source)
	e.EntityID = user.ID
	e.Vector = user.Vector.Clone()
	return e
}

// NewUserDeleteEvent creates an event for a user removal.
func NewUserDeleteEvent(id int, source string) *CatalogEvent {
	e := newEvent(KindDelete, NamespaceUsers, source)
	e.EntityID = id
	return e
}

// NewLoadEvent creates an event for a bulk catalog replacement.
// Load events carry no entity payload; consumers drop derived caches instead
// of replaying individual mutations.
func NewLoadEvent(namespace string, count int, source string) *CatalogEvent {
	e := newEvent(KindLoad, namespace, source)
	e.Count = count
	return e
}

func newEvent(kind, namespace, source string) *CatalogEvent {
	return &CatalogEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Kind:          kind,
		Namespace:     namespace,
		Source:        source,
		Timestamp:     time.Now().UTC(),
	}
}

// GetSchemaVersion returns the schema version, defaulting to 1 for legacy events.
func (e *CatalogEvent) GetSchemaVersion() int {
	if e.SchemaVersion == 0 {
		return 1 // Default for events without explicit version (backward compatibility)
	}
	return e.SchemaVersion
}

// EnsureSchemaVersion sets the schema version if not already set.
// Call this when processing events that may not have a version set.
func (e *CatalogEvent) EnsureSchemaVersion() {
	if e.SchemaVersion == 0 {
		e.SchemaVersion = SchemaVersion
	}
}

// Validate checks required fields and returns an error if validation fails.
func (e *CatalogEvent) Validate() error {
	if e.EventID == "" {
		return &ValidationError{Field: "event_id", Message: "required"}
	}
	switch e.Kind {
	case KindUpsert, KindDelete, KindLoad:
	default:
		return &ValidationError{Field: "kind", Message: "must be upsert, delete, or load"}
	}
	switch e.Namespace {
	case NamespaceItems, NamespaceUsers:
	default:
		return &ValidationError{Field: "namespace", Message: "must be items or users"}
	}
	switch e.Kind {
	case KindUpsert:
		if e.EntityID == 0 {
			return &ValidationError{Field: "entity_id", Message: "required"}
		}
		if len(e.Vector) == 0 {
			return &ValidationError{Field: "vector", Message: "required for upsert"}
		}
	case KindDelete:
		if e.EntityID == 0 {
			return &ValidationError{Field: "entity_id", Message: "required"}
		}
	case KindLoad:
		if e.Count < 0 {
			return &ValidationError{Field: "count", Message: "must not be negative"}
		}
	}
	return nil
}

// Topic returns the bus subject for this event.
// Format: catalog.<namespace>.<kind>
// Example: catalog.items.upsert
func (e *CatalogEvent) Topic() string {
	return TopicPrefix + "." + e.Namespace + "." + e.Kind
}

// Item converts an items-namespace upsert event back into a catalog item.
func (e *CatalogEvent) Item() recommend.Item {
	return recommend.Item{ID: e.EntityID, Title: e.Title, Vector: e.Vector}
}

// User converts a users-namespace upsert event back into a user record.
func (e *CatalogEvent) User() recommend.User {
	return recommend.User{ID: e.EntityID, Vector: e.Vector}
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
