package application

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

func imageOwner(ref domain.EntityRef) error {
	if !ref.Type.CarriesImages() {
		return domain.Invalid("entityType", "%s does not carry images", ref.Type)
	}
	return nil
}

// UploadImage stores the file and appends it to the entity's image list.
// The stored file is dropped again when the append fails.
func (s *Service) UploadImage(ctx context.Context, ref domain.EntityRef, filename string, body io.Reader) (domain.Image, error) {
	if err := imageOwner(ref); err != nil {
		return domain.Image{}, err
	}
	if _, err := s.requireEntity(ctx, ref); err != nil {
		return domain.Image{}, err
	}

	image, err := s.images.Save(ctx, ref, filename, body)
	if err != nil {
		return domain.Image{}, err
	}
	if _, err := s.repo.AppendImage(ctx, ref, image); err != nil {
		s.releaseImages(ctx, []string{image.URL})
		return domain.Image{}, err
	}
	s.log.Debug().Str("entity", ref.String()).Str("url", image.URL).Msg("image uploaded")
	return image, nil
}

// AttachImage shares an already stored image with another entity.
func (s *Service) AttachImage(ctx context.Context, ref domain.EntityRef, image domain.Image) ([]domain.Image, error) {
	if err := imageOwner(ref); err != nil {
		return nil, err
	}
	image.URL = strings.TrimSpace(image.URL)
	v := &domain.ValidationError{}
	checkText(v, "url", image.URL)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if image.Filename == "" {
		image.Filename = image.URL[strings.LastIndex(image.URL, "/")+1:]
	}
	if image.UploadedAt.IsZero() {
		image.UploadedAt = time.Now().UTC()
	}
	if _, err := s.requireEntity(ctx, ref); err != nil {
		return nil, err
	}

	refs, err := s.repo.CountImageReferences(ctx, image.URL)
	if err != nil {
		return nil, err
	}
	if refs == 0 {
		return nil, fmt.Errorf("image %s: %w", image.URL, domain.ErrNotFound)
	}
	return s.repo.AppendImage(ctx, ref, image)
}

// DetachImage removes the url from the entity. The file goes away with the
// last reference.
func (s *Service) DetachImage(ctx context.Context, ref domain.EntityRef, url string) ([]domain.Image, error) {
	if err := imageOwner(ref); err != nil {
		return nil, err
	}
	remaining, err := s.repo.RemoveImage(ctx, ref, strings.TrimSpace(url))
	if err != nil {
		return nil, err
	}
	s.releaseImages(ctx, []string{strings.TrimSpace(url)})
	return remaining, nil
}

// releaseImages deletes the files of urls that no row references anymore.
// Failures are logged; the rows are already gone.
func (s *Service) releaseImages(ctx context.Context, urls []string) {
	seen := make(map[string]bool, len(urls))
	for _, url := range urls {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true

		refs, err := s.repo.CountImageReferences(ctx, url)
		if err != nil {
			s.log.Warn().Err(err).Str("url", url).Msg("count image references")
			continue
		}
		if refs > 0 {
			continue
		}
		if err := s.images.Remove(ctx, url); err != nil {
			s.log.Warn().Err(err).Str("url", url).Msg("remove image file")
			continue
		}
		s.log.Debug().Str("url", url).Msg("image file released")
	}
}
