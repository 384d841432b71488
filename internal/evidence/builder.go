// Package evidence validates user-supplied product metadata and photos into an
// EvidenceBundle. It performs no I/O.
package evidence

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"bootcheck/internal/domain"
)

// MinImages is the smallest number of photos a bundle may carry.
const MinImages = 3

type Input struct {
	Brand  string
	Model  string
	Tier   string
	Weight string
	Images map[domain.ImageRole]domain.Image
}

func Build(in Input) (*domain.EvidenceBundle, error) {
	brand, ok := domain.ParseBrand(in.Brand)
	if !ok {
		return nil, domain.ValidationError(fmt.Sprintf("unknown brand %q", in.Brand))
	}

	model := strings.TrimSpace(in.Model)
	if model == "" {
		return nil, domain.ValidationError("model name is required")
	}

	tier, ok := domain.ParseTier(in.Tier)
	if !ok {
		return nil, domain.ValidationError(fmt.Sprintf("unknown tier %q", in.Tier))
	}

	weight, err := ParseWeight(in.Weight)
	if err != nil {
		return nil, err
	}

	images, err := orderImages(in.Images)
	if err != nil {
		return nil, err
	}

	return domain.NewEvidenceBundle(brand, model, tier, weight, images), nil
}

// ParseWeight accepts a positive, finite number of grams.
func ParseWeight(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, domain.ValidationError("weight is required")
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, domain.ValidationError(fmt.Sprintf("weight %q is not a number", s))
	}
	if w <= 0 {
		return 0, domain.ValidationError("weight must be a positive number of grams")
	}
	return w, nil
}

func orderImages(byRole map[domain.ImageRole]domain.Image) ([]domain.Image, error) {
	for role, img := range byRole {
		if !role.Valid() {
			return nil, domain.ValidationError(fmt.Sprintf("unknown image role %q", role))
		}
		if len(img.Data) == 0 {
			return nil, domain.ValidationError(fmt.Sprintf("image for %s is empty", role))
		}
	}

	if len(byRole) < MinImages {
		return nil, domain.ValidationError(fmt.Sprintf("upload at least %d images, got %d", MinImages, len(byRole)))
	}

	var missing []string
	for _, role := range domain.MandatoryRoles {
		if _, ok := byRole[role]; !ok {
			missing = append(missing, string(role))
		}
	}
	if len(missing) > 0 {
		return nil, domain.ValidationError("missing required images: " + strings.Join(missing, ", "))
	}

	images := make([]domain.Image, 0, len(byRole))
	for _, role := range domain.AllRoles {
		img, ok := byRole[role]
		if !ok {
			continue
		}
		img.Role = role
		images = append(images, img)
	}
	return images, nil
}
