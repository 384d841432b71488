package domain

import (
	"strings"
	"time"
)

type Brand string

const (
	BrandNike       Brand = "Nike"
	BrandAdidas     Brand = "Adidas"
	BrandPuma       Brand = "Puma"
	BrandMizuno     Brand = "Mizuno"
	BrandUA         Brand = "UA"
	BrandNewBalance Brand = "New Balance"
)

var Brands = []Brand{BrandNike, BrandAdidas, BrandPuma, BrandMizuno, BrandUA, BrandNewBalance}

// ParseBrand matches s against the closed brand set, ignoring case and surrounding space.
func ParseBrand(s string) (Brand, bool) {
	s = strings.TrimSpace(s)
	for _, b := range Brands {
		if strings.EqualFold(string(b), s) {
			return b, true
		}
	}
	return "", false
}

type Tier string

const (
	TierElite   Tier = "Elite"
	TierPro     Tier = "Pro"
	TierAcademy Tier = "Academy"
	TierClub    Tier = "Club"
)

var Tiers = []Tier{TierElite, TierPro, TierAcademy, TierClub}

func ParseTier(s string) (Tier, bool) {
	s = strings.TrimSpace(s)
	for _, t := range Tiers {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

// ImageRole names the part of the product a photo shows.
type ImageRole string

const (
	RoleSide      ImageRole = "side"
	RoleSole      ImageRole = "sole"
	RoleTag       ImageRole = "tag"
	RoleHeel      ImageRole = "heel"
	RoleStitching ImageRole = "stitching"
)

var (
	MandatoryRoles = []ImageRole{RoleSide, RoleSole, RoleTag}
	OptionalRoles  = []ImageRole{RoleHeel, RoleStitching}
	// AllRoles is also the order images are sent to the engine.
	AllRoles = []ImageRole{RoleSide, RoleSole, RoleTag, RoleHeel, RoleStitching}
)

func (r ImageRole) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Title is the label shown next to the upload field.
func (r ImageRole) Title() string {
	switch r {
	case RoleSide:
		return "Side Profile"
	case RoleSole:
		return "Soleplate"
	case RoleTag:
		return "Inner Tag"
	case RoleHeel:
		return "Heel Symmetry"
	case RoleStitching:
		return "Construction/Stitching"
	}
	return string(r)
}

type Image struct {
	Role     ImageRole
	Filename string
	MIMEType string
	Data     []byte
}

// EvidenceBundle is the validated input of one verification attempt. Construct it
// through the evidence package; fields are read-only once built.
type EvidenceBundle struct {
	brand       Brand
	model       string
	tier        Tier
	weightGrams float64
	images      []Image
}

// NewEvidenceBundle assembles a bundle without validating it.
func NewEvidenceBundle(brand Brand, model string, tier Tier, weightGrams float64, images []Image) *EvidenceBundle {
	cp := make([]Image, len(images))
	copy(cp, images)
	return &EvidenceBundle{
		brand:       brand,
		model:       model,
		tier:        tier,
		weightGrams: weightGrams,
		images:      cp,
	}
}

func (b *EvidenceBundle) Brand() Brand         { return b.brand }
func (b *EvidenceBundle) Model() string        { return b.model }
func (b *EvidenceBundle) Tier() Tier           { return b.tier }
func (b *EvidenceBundle) WeightGrams() float64 { return b.weightGrams }

// Images returns the ordered images. The slice is a copy.
func (b *EvidenceBundle) Images() []Image {
	cp := make([]Image, len(b.images))
	copy(cp, b.images)
	return cp
}

type Status int

const (
	StatusInspectionRequired Status = iota
	StatusVerifiedAuthentic
)

func (s Status) String() string {
	if s == StatusVerifiedAuthentic {
		return "verified_authentic"
	}
	return "inspection_required"
}

// Label is the text printed on the status line of a report.
func (s Status) Label() string {
	if s == StatusVerifiedAuthentic {
		return "VERIFIED AUTHENTIC"
	}
	return "INSPECTION REQUIRED"
}

var authenticKeywords = []string{"LEGIT", "AUTHENTIC", "VERIFIED"}

// DeriveStatus flags text as authentic when any keyword appears anywhere, in any case.
// A plain substring scan: "not legit" and "unverified" both match.
func DeriveStatus(text string) Status {
	upper := strings.ToUpper(text)
	for _, kw := range authenticKeywords {
		if strings.Contains(upper, kw) {
			return StatusVerifiedAuthentic
		}
	}
	return StatusInspectionRequired
}

type VerificationReport struct {
	RawText     string
	Status      Status
	Model       string
	GeneratedAt time.Time
}

func NewVerificationReport(rawText, engineModel string, at time.Time) *VerificationReport {
	return &VerificationReport{
		RawText:     rawText,
		Status:      DeriveStatus(rawText),
		Model:       engineModel,
		GeneratedAt: at,
	}
}
