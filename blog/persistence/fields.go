package persistence

import (
	"fmt"
	"strings"

	"github.com/mwhitt/bloglite/blog/domain"
)

// requiredFields checks the store-level emptiness invariant. The web form
// rejects blank input before it gets here; the store re-checks so that no
// caller can persist a post with an empty required field.
func requiredFields(fields map[string]string) error {
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s: %w", name, domain.ErrMissingField)
		}
	}
	return nil
}

func validatePost(p *domain.Post) error {
	return requiredFields(map[string]string{
		"title":    p.Title,
		"subtitle": p.Subtitle,
		"author":   p.Author,
		"img_url":  p.ImgURL,
		"body":     p.Body,
		"date":     p.Date,
	})
}

func validatePatch(patch domain.Patch) error {
	return requiredFields(map[string]string{
		"title":    patch.Title,
		"subtitle": patch.Subtitle,
		"author":   patch.Author,
		"img_url":  patch.ImgURL,
		"body":     patch.Body,
	})
}
