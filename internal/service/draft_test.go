package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printsaarthi/internal/apperr"
	"printsaarthi/internal/model"
	"printsaarthi/internal/repository"
)

func pdf(name string) model.FileInfo {
	return model.FileInfo{Name: name, Size: 2048, MimeType: "application/pdf"}
}

func TestCommitEmptyFileListFailsAndPersistsNothing(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	builder := NewDraftBuilder(store, testLogger())

	draft, err := builder.Commit(ctx)

	require.Nil(t, draft)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperr.CodeEmptyFileList, ve.Code)

	_, err = store.Get(ctx, repository.KeyCurrentOrder)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestCommitPersistsDraft(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	builder := NewDraftBuilder(store, testLogger())

	builder.AddFiles(pdf("thesis.pdf"), pdf("appendix.pdf"))
	require.NoError(t, builder.SetSpecification("quantity", "3"))
	require.NoError(t, builder.SetSpecification("binding", model.BindingSpiral))

	draft, err := builder.Commit(ctx)
	require.NoError(t, err)
	assert.Len(t, draft.Files, 2)
	assert.False(t, draft.CreatedAt.IsZero())

	raw, err := store.Get(ctx, repository.KeyCurrentOrder)
	require.NoError(t, err)

	var stored model.OrderDraft
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, 3, stored.Specifications.Quantity)
	assert.Equal(t, model.BindingSpiral, stored.Specifications.Binding)
}

func TestAddFilesFiltersDisallowedTypes(t *testing.T) {
	builder := NewDraftBuilder(repository.NewMemoryStore(), testLogger())

	added := builder.AddFiles(
		pdf("resume.pdf"),
		model.FileInfo{Name: "virus.exe", Size: 10, MimeType: "application/octet-stream"},
		model.FileInfo{Name: "photo.JPG", Size: 10, MimeType: "image/jpeg"},
		model.FileInfo{Name: "notes.txt", Size: 10, MimeType: "text/plain"},
	)

	assert.Equal(t, 2, added)
	assert.Len(t, builder.Draft().Files, 2)
}

func TestAddFilesIsAdditive(t *testing.T) {
	builder := NewDraftBuilder(repository.NewMemoryStore(), testLogger())

	builder.AddFiles(pdf("one.pdf"))
	builder.AddFiles(pdf("two.pdf"))

	files := builder.Draft().Files
	require.Len(t, files, 2)
	assert.Equal(t, "one.pdf", files[0].Name)
	assert.Equal(t, "two.pdf", files[1].Name)
}

func TestRemoveFileOutOfBoundsIsNoop(t *testing.T) {
	builder := NewDraftBuilder(repository.NewMemoryStore(), testLogger())
	builder.AddFiles(pdf("keep.pdf"))

	builder.RemoveFile(-1)
	builder.RemoveFile(5)
	assert.Len(t, builder.Draft().Files, 1)

	builder.RemoveFile(0)
	assert.Empty(t, builder.Draft().Files)
}

func TestSetSpecificationValidation(t *testing.T) {
	builder := NewDraftBuilder(repository.NewMemoryStore(), testLogger())

	require.NoError(t, builder.SetSpecification("quantity", "250"))
	assert.Equal(t, 250, builder.Draft().Specifications.Quantity)

	var ve *apperr.ValidationError

	err := builder.SetSpecification("quantity", "0")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperr.CodeInvalidQuantity, ve.Code)

	err = builder.SetSpecification("quantity", "lots")
	require.ErrorAs(t, err, &ve)

	err = builder.SetSpecification("margins", "wide")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperr.CodeUnknownField, ve.Code)
}

func TestRestoreLoadsCommittedDraft(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	first := NewDraftBuilder(store, testLogger())
	first.AddFiles(pdf("saved.pdf"))
	_, err := first.Commit(ctx)
	require.NoError(t, err)

	second := NewDraftBuilder(store, testLogger())
	require.NoError(t, second.Restore(ctx))
	files := second.Draft().Files
	require.Len(t, files, 1)
	assert.Equal(t, "saved.pdf", files[0].Name)
}

func TestRestoreDoesNotClobberEditedDraft(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	first := NewDraftBuilder(store, testLogger())
	first.AddFiles(pdf("old.pdf"))
	_, err := first.Commit(ctx)
	require.NoError(t, err)

	// Simulate the stored copy arriving after the user already edited
	// the draft: the edit happens while the read is in flight and the
	// stale load must be discarded.
	var second *DraftBuilder
	slow := &editDuringGet{MemoryStore: store, edit: func() {
		second.AddFiles(pdf("new.pdf"))
	}}
	second = NewDraftBuilder(slow, testLogger())

	require.NoError(t, second.Restore(ctx))

	files := second.Draft().Files
	require.Len(t, files, 1)
	assert.Equal(t, "new.pdf", files[0].Name)
}

// editDuringGet mutates the builder while a Restore read is in flight.
type editDuringGet struct {
	*repository.MemoryStore
	edit func()
}

func (s *editDuringGet) Get(ctx context.Context, key string) (string, error) {
	value, err := s.MemoryStore.Get(ctx, key)
	if err == nil && s.edit != nil {
		s.edit()
	}
	return value, err
}

func TestRestoreWithNoSavedDraft(t *testing.T) {
	builder := NewDraftBuilder(repository.NewMemoryStore(), testLogger())
	require.NoError(t, builder.Restore(context.Background()))
	assert.Empty(t, builder.Draft().Files)
	assert.Equal(t, model.DefaultSpecifications(), builder.Draft().Specifications)
}

func TestRestorePropagatesStorageFailure(t *testing.T) {
	builder := NewDraftBuilder(&failingStore{}, testLogger())
	assert.Error(t, builder.Restore(context.Background()))
}

type failingStore struct{}

func (s *failingStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("disk gone")
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	return errors.New("disk gone")
}

func (s *failingStore) Delete(ctx context.Context, key string) error {
	return errors.New("disk gone")
}
