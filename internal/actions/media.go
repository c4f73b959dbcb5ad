package actions

import (
	"context"
	"errors"
	"io"
	"strings"

	"portfolio-cms/internal/domain/media"
	"portfolio-cms/internal/rbac/presets"
	"portfolio-cms/internal/storage/s3"
	"portfolio-cms/pkg/validator"

	"github.com/google/uuid"
)

const (
	actionMediaList   = "media.list"
	actionMediaUpload = "media.upload"
	actionMediaAlt    = "media.update_alt"
	actionMediaDelete = "media.delete"
)

const sniffLen = 512

var errMissingBody = errors.New("upload has no content")

// MediaItem is a stored item together with a URL it can be fetched from.
type MediaItem struct {
	media.Item
	URL string
}

// Upload is a file received from the admin UI.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
	AltText     string
}

func (u *Upload) normalize(maxSize int64) error {
	u.FileName = strings.TrimSpace(u.FileName)
	if err := validator.FileName(u.FileName); err != nil {
		return err
	}

	if err := validator.FileSize(u.Size, maxSize); err != nil {
		return err
	}

	u.AltText = validator.StripHTML(u.AltText)
	if err := validator.AltText(u.AltText); err != nil {
		return err
	}

	if u.Body == nil {
		return errMissingBody
	}
	return u.detectContentType()
}

// detectContentType replaces the client's declared type with the sniffed one
// and rewinds the body for the upload.
func (u *Upload) detectContentType() error {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(u.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if n == 0 {
		return errMissingBody
	}
	if _, err := u.Body.Seek(0, io.SeekStart); err != nil {
		return err
	}

	contentType, err := validator.DetectedMediaType(u.ContentType, head[:n])
	if err != nil {
		return err
	}
	u.ContentType = contentType
	return nil
}

func (a *Actions) withURL(ctx context.Context, item *media.Item) MediaItem {
	out := MediaItem{Item: *item}
	url, err := a.objects.URL(ctx, item.ObjectKey)
	if err != nil {
		a.logger.Warn().Err(err).Str("object_key", item.ObjectKey).Msg("media URL unavailable")
		return out
	}
	out.URL = url
	return out
}

func (a *Actions) ListMedia(ctx context.Context, filter media.ListItemsFilter) Result[[]MediaItem] {
	return guarded(ctx, a, op[[]MediaItem]{
		name:     actionMediaList,
		resource: presets.ResourceMedia,
		action:   presets.ActionView,
		run: func(ctx context.Context, _ string) ([]MediaItem, error) {
			items, err := a.media.List(ctx, filter)
			if err != nil {
				return nil, err
			}
			out := make([]MediaItem, 0, len(items))
			for _, item := range items {
				out = append(out, a.withURL(ctx, item))
			}
			return out, nil
		},
	})
}

// UploadMedia stores the object first and then the row. When the row cannot
// be written the object is removed again.
func (a *Actions) UploadMedia(ctx context.Context, upload Upload) Result[MediaItem] {
	return guarded(ctx, a, op[MediaItem]{
		name:     actionMediaUpload,
		resource: presets.ResourceMedia,
		action:   presets.ActionCreate,
		validate: func() error {
			return upload.normalize(a.maxUploadSize)
		},
		run: func(ctx context.Context, actor string) (MediaItem, error) {
			id := uuid.New()
			key := s3.BuildObjectKey(id, upload.FileName)

			if err := a.objects.PutObject(ctx, key, upload.ContentType, upload.Body, upload.Size); err != nil {
				return MediaItem{}, err
			}

			item, err := a.media.Create(ctx, media.CreateItemInput{
				ID:          id,
				ObjectKey:   key,
				FileName:    upload.FileName,
				ContentType: upload.ContentType,
				SizeBytes:   upload.Size,
				AltText:     upload.AltText,
				UploadedBy:  actor,
			})
			if err != nil {
				if delErr := a.objects.DeleteObject(context.WithoutCancel(ctx), key); delErr != nil {
					a.logger.Error().Err(delErr).Str("object_key", key).Msg("orphaned media object")
				}
				return MediaItem{}, err
			}

			return a.withURL(ctx, item), nil
		},
		targetOf: func(m MediaItem) string { return m.ID.String() },
	})
}

func (a *Actions) UpdateMediaAlt(ctx context.Context, id uuid.UUID, alt string) Result[MediaItem] {
	return guarded(ctx, a, op[MediaItem]{
		name:     actionMediaAlt,
		resource: presets.ResourceMedia,
		action:   presets.ActionEdit,
		target:   id.String(),
		validate: func() error {
			alt = validator.StripHTML(alt)
			return validator.AltText(alt)
		},
		run: func(ctx context.Context, _ string) (MediaItem, error) {
			item, err := a.media.UpdateAlt(ctx, id, alt)
			if err != nil {
				return MediaItem{}, err
			}
			return a.withURL(ctx, item), nil
		},
	})
}

// DeleteMedia removes the row, then the object. A failed object delete is
// logged; the item is already gone from the library.
func (a *Actions) DeleteMedia(ctx context.Context, id uuid.UUID) Result[MediaItem] {
	return guarded(ctx, a, op[MediaItem]{
		name:     actionMediaDelete,
		resource: presets.ResourceMedia,
		action:   presets.ActionDelete,
		target:   id.String(),
		run: func(ctx context.Context, _ string) (MediaItem, error) {
			item, err := a.media.Delete(ctx, id)
			if err != nil {
				return MediaItem{}, err
			}
			if err := a.objects.DeleteObject(ctx, item.ObjectKey); err != nil {
				a.logger.Error().Err(err).Str("object_key", item.ObjectKey).Msg("orphaned media object")
			}
			return MediaItem{Item: *item}, nil
		},
	})
}
