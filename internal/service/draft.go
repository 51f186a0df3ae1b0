package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"printsaarthi/internal/apperr"
	"printsaarthi/internal/model"
	"printsaarthi/internal/repository"
)

// Allowed upload kinds: documents, images, design formats.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".psd":  true,
	".ai":   true,
}

// maxFileSize is advisory only; oversized files are accepted here and
// rejected at the UI layer.
const maxFileSize = 50 << 20

// DraftBuilder collects selected files and print specifications into one
// in-memory draft. Commit persists it under currentOrder so the flow
// survives a restart.
type DraftBuilder struct {
	mu       sync.Mutex
	draft    model.OrderDraft
	revision uint64
	store    repository.LocalStore
	logger   *logrus.Logger
}

func NewDraftBuilder(store repository.LocalStore, logger *logrus.Logger) *DraftBuilder {
	return &DraftBuilder{
		draft: model.OrderDraft{
			Specifications: model.DefaultSpecifications(),
		},
		store:  store,
		logger: logger,
	}
}

// Restore loads a previously committed draft. A draft edited while the
// load was in flight wins over the stored copy, so a stale read can never
// clobber newer work.
func (b *DraftBuilder) Restore(ctx context.Context) error {
	b.mu.Lock()
	before := b.revision
	b.mu.Unlock()

	raw, err := b.store.Get(ctx, repository.KeyCurrentOrder)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("load draft: %w", err)
	}

	var stored model.OrderDraft
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return fmt.Errorf("decode draft: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.revision != before {
		b.logger.Debug("discarding stale draft load")
		return nil
	}

	b.draft = stored
	return nil
}

// AddFiles appends allow-listed files to the draft. Returns how many of
// the selection were accepted.
func (b *DraftBuilder) AddFiles(files ...model.FileInfo) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	added := 0
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if !allowedExtensions[ext] {
			b.logger.WithField("file", f.Name).Warn("skipping file with disallowed type")
			continue
		}
		if f.Size > maxFileSize {
			b.logger.WithFields(logrus.Fields{
				"file": f.Name,
				"size": f.Size,
			}).Warn("file exceeds advisory size limit")
		}
		b.draft.Files = append(b.draft.Files, f)
		added++
	}

	if added > 0 {
		b.revision++
	}
	return added
}

// RemoveFile drops one entry. Out-of-bounds indexes are a no-op.
func (b *DraftBuilder) RemoveFile(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.draft.Files) {
		return
	}

	b.draft.Files = append(b.draft.Files[:index], b.draft.Files[index+1:]...)
	b.revision++
}

// SetSpecification merges a single field update. No cross-field
// validation happens here; quantity only needs to be a positive integer.
func (b *DraftBuilder) SetSpecification(field, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch field {
	case "paperSize":
		b.draft.Specifications.PaperSize = value
	case "paperType":
		b.draft.Specifications.PaperType = value
	case "quantity":
		q, err := strconv.Atoi(value)
		if err != nil || q < 1 {
			return &apperr.ValidationError{
				Code:    apperr.CodeInvalidQuantity,
				Field:   field,
				Message: "quantity must be a positive integer",
			}
		}
		b.draft.Specifications.Quantity = q
	case "color":
		b.draft.Specifications.Color = value
	case "binding":
		b.draft.Specifications.Binding = value
	case "specialInstructions":
		b.draft.Specifications.SpecialInstructions = value
	default:
		return &apperr.ValidationError{
			Code:    apperr.CodeUnknownField,
			Field:   field,
			Message: "unknown specification field",
		}
	}

	b.revision++
	return nil
}

// Draft returns a copy of the current draft.
func (b *DraftBuilder) Draft() model.OrderDraft {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.snapshot()
}

// Commit validates the draft and persists it as the durable handoff to the
// cart. An empty file list fails with EMPTY_FILE_LIST and persists nothing.
func (b *DraftBuilder) Commit(ctx context.Context) (*model.OrderDraft, error) {
	b.mu.Lock()

	if len(b.draft.Files) == 0 {
		b.mu.Unlock()
		return nil, &apperr.ValidationError{
			Code:    apperr.CodeEmptyFileList,
			Message: "select at least one file to upload",
		}
	}

	if b.draft.CreatedAt.IsZero() {
		b.draft.CreatedAt = time.Now().UTC()
	}
	draft := b.snapshot()
	b.mu.Unlock()

	raw, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	if err := b.store.Set(ctx, repository.KeyCurrentOrder, string(raw)); err != nil {
		return nil, fmt.Errorf("persist draft: %w", err)
	}

	b.logger.WithFields(logrus.Fields{
		"files":    len(draft.Files),
		"quantity": draft.Specifications.Quantity,
	}).Info("draft committed")

	return &draft, nil
}

// Reset clears the in-memory draft after an order is placed.
func (b *DraftBuilder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.draft = model.OrderDraft{
		Specifications: model.DefaultSpecifications(),
	}
	b.revision++
}

func (b *DraftBuilder) snapshot() model.OrderDraft {
	draft := b.draft
	draft.Files = append([]model.FileInfo(nil), b.draft.Files...)
	return draft
}
