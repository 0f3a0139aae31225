package spaces

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrInvalidSpaceID indicates that a space identifier is empty or exceeds storage bounds.
	ErrInvalidSpaceID = errors.New("spaces: invalid space id")
	// ErrInvalidCategory indicates an unknown category value.
	ErrInvalidCategory = errors.New("spaces: invalid category")
	// ErrInvalidRuntime indicates an unknown runtime value.
	ErrInvalidRuntime = errors.New("spaces: invalid runtime")
	// ErrInvalidVisibility indicates an unknown visibility value.
	ErrInvalidVisibility = errors.New("spaces: invalid visibility")
	// ErrInvalidURL indicates a target URL that is not absolute http(s).
	ErrInvalidURL = errors.New("spaces: invalid url")
)

const maxIdentifierLength = 190

// SpaceID represents a validated space identifier.
type SpaceID string

// NewSpaceID validates raw input and returns a SpaceID.
func NewSpaceID(rawInput string) (SpaceID, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSpaceID)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidSpaceID, maxIdentifierLength)
	}
	return SpaceID(trimmed), nil
}

// String returns the underlying string identifier.
func (id SpaceID) String() string {
	return string(id)
}

// Category classifies a space by the kind of media it works with.
type Category string

const (
	CategoryAudio Category = "Audio"
	CategoryImage Category = "Image"
	CategoryText  Category = "Text"
	CategoryVideo Category = "Video"
	CategoryOther Category = "Other"
)

// ParseCategory validates raw input against the known categories.
func ParseCategory(rawInput string) (Category, error) {
	switch Category(strings.TrimSpace(rawInput)) {
	case CategoryAudio:
		return CategoryAudio, nil
	case CategoryImage:
		return CategoryImage, nil
	case CategoryText:
		return CategoryText, nil
	case CategoryVideo:
		return CategoryVideo, nil
	case CategoryOther:
		return CategoryOther, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, rawInput)
	}
}

// Runtime identifies the hardware a space executes on.
type Runtime string

const (
	RuntimeZeno Runtime = "ZENO"
	RuntimeCuda Runtime = "CUDA"
	RuntimeCPU  Runtime = "CPU"
	RuntimeTPU  Runtime = "TPU"
)

// ParseRuntime validates raw input against the known runtimes.
func ParseRuntime(rawInput string) (Runtime, error) {
	switch Runtime(strings.ToUpper(strings.TrimSpace(rawInput))) {
	case RuntimeZeno:
		return RuntimeZeno, nil
	case RuntimeCuda:
		return RuntimeCuda, nil
	case RuntimeCPU:
		return RuntimeCPU, nil
	case RuntimeTPU:
		return RuntimeTPU, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRuntime, rawInput)
	}
}

// Visibility controls which read surfaces expose a space. Only public
// spaces appear in listings and analytics.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
)

// ParseVisibility validates raw input, defaulting empty input to public.
func ParseVisibility(rawInput string) (Visibility, error) {
	switch Visibility(strings.ToLower(strings.TrimSpace(rawInput))) {
	case "":
		return VisibilityPublic, nil
	case VisibilityPublic:
		return VisibilityPublic, nil
	case VisibilityPrivate:
		return VisibilityPrivate, nil
	case VisibilityUnlisted:
		return VisibilityUnlisted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVisibility, rawInput)
	}
}

// ValidateTargetURL requires an absolute http or https URL.
func ValidateTargetURL(rawInput string) (string, error) {
	trimmed := strings.TrimSpace(rawInput)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawInput)
	}
	return trimmed, nil
}

// Space models a published listing pointing to an externally hosted app.
type Space struct {
	ID         string    `gorm:"column:id;primaryKey;size:36;not null"`
	Title      string    `gorm:"column:title;size:100;not null"`
	Subtitle   string    `gorm:"column:subtitle;size:200;not null"`
	URL        string    `gorm:"column:url;size:512;not null"`
	Category   string    `gorm:"column:category;size:32;not null"`
	Runtime    string    `gorm:"column:runtime;size:16;not null"`
	Repository string    `gorm:"column:repository;size:512"`
	RepoIcon   string    `gorm:"column:repo_icon;size:512"`
	Gradient   string    `gorm:"column:gradient;size:120"`
	Visibility string    `gorm:"column:visibility;size:16;not null;default:public"`
	AuthorID   string    `gorm:"column:author_id;size:36;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Space) TableName() string {
	return "spaces"
}

// Click records one visit-through event for a space. Rows are append-only
// and removed only when the owning space is deleted.
type Click struct {
	ID        string    `gorm:"column:id;primaryKey;size:36;not null"`
	SpaceID   string    `gorm:"column:space_id;size:36;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Click) TableName() string {
	return "clicks"
}

// SpaceView is the listing projection: a space with its author resolved and
// the engagement fields the ranking engine consumes. Clicks is restricted
// to the trailing recency window at query time.
type SpaceView struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Subtitle       string    `json:"subtitle"`
	URL            string    `json:"url"`
	Category       string    `json:"category"`
	Runtime        string    `json:"runtime"`
	Repository     string    `json:"repository,omitempty"`
	RepoIcon       string    `json:"repoIcon,omitempty"`
	Gradient       string    `json:"gradient,omitempty"`
	Visibility     string    `json:"visibility"`
	AuthorID       string    `json:"authorId"`
	AuthorName     string    `json:"authorName"`
	AuthorUsername string    `json:"authorUsername"`
	Clicks         int64     `json:"clicks"`
	DaysAgo        int       `json:"daysAgo"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TrendingScore is the recency-weighted popularity metric: clicks divided
// by (days since creation + 1). The +1 keeps same-day spaces finite and
// dampens brand-new spaces with a handful of clicks.
func (v SpaceView) TrendingScore() float64 {
	return float64(v.Clicks) / float64(v.DaysAgo+1)
}
