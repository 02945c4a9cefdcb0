package news

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Candidate is a normalized, not-yet-enriched content item produced by
// one source fetcher. It lives for a single pipeline run only.
type Candidate struct {
	Title       string
	Body        string
	Source      string
	Permalink   string
	ExternalURL string
	Author      string
	Score       int
	Published   time.Time
	Tags        []string
}

// RankedCandidate is a Candidate that survived deduplication, plus the
// enrichment fields filled in before persistence.
type RankedCandidate struct {
	Candidate

	Category          string
	TranslatedTitle   string
	TranslatedSummary string
	TranslatedBody    string
	Image             *ImageAsset
}

// ImageAsset describes a downloaded, validated and uploaded image.
// Immutable once created.
type ImageAsset struct {
	FileName       string    `bson:"fileName"`
	ContentType    string    `bson:"contentType"`
	Size           int64     `bson:"size"`
	Width          int       `bson:"width"`
	Height         int       `bson:"height"`
	ObjectKey      string    `bson:"objectKey"`
	ThumbObjectKey string    `bson:"thumbObjectKey"`
	PublicURL      string    `bson:"publicUrl"`
	ThumbURL       string    `bson:"thumbUrl"`
	AltText        string    `bson:"altText"`
	UploadedAt     time.Time `bson:"uploadedAt"`
}

// Article is the durable output entity of the pipeline. The pipeline
// creates it exactly once per slug and never mutates it afterwards.
type Article struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Category    string             `bson:"category"`
	Type        string             `bson:"type"`
	Title       string             `bson:"title"`
	Caption     string             `bson:"caption"`
	Slug        string             `bson:"slug"`
	Keywords    []string           `bson:"keywords"`
	SocialTags  string             `bson:"socialTags"`
	Summary     string             `bson:"summary"`
	Body        string             `bson:"body"`
	Image       *ImageAsset        `bson:"image,omitempty"`
	Subjects    []string           `bson:"subjects"`
	Authors     []string           `bson:"authors"`
	PublishedAt time.Time          `bson:"publishedAt"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
	Priority    int                `bson:"priority"`
	Active      bool               `bson:"active"`
	ViewCount   int64              `bson:"viewCount"`
}
