package event

import (
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryWildlifeSafari Category = "Wildlife Safari"
	CategoryNatureTrek     Category = "Nature Trek"
	CategoryBirdWatching   Category = "Bird Watching"
	CategoryConservation   Category = "Conservation"
	CategoryCulturalTour   Category = "Cultural Tour"
	CategoryAdventure      Category = "Adventure"
	CategoryPhotography    Category = "Photography"
	CategoryOther          Category = "Other"
)

var Categories = []Category{
	CategoryWildlifeSafari, CategoryNatureTrek, CategoryBirdWatching, CategoryConservation,
	CategoryCulturalTour, CategoryAdventure, CategoryPhotography, CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy        Difficulty = "Easy"
	DifficultyModerate    Difficulty = "Moderate"
	DifficultyChallenging Difficulty = "Challenging"
	DifficultyExpert      Difficulty = "Expert"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging, DifficultyExpert:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type Organizer struct {
	Name    string `json:"name,omitempty"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
}

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    Category  `gorm:"size:32;not null;index" json:"category"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Location    string    `gorm:"size:255;not null" json:"location"`

	Coordinates *datatypes.JSONType[Coordinates] `gorm:"type:jsonb" json:"coordinates,omitempty"`
	Images      datatypes.JSONSlice[Image]       `gorm:"type:jsonb" json:"images"`

	MaxParticipants     int     `gorm:"not null;check:chk_events_capacity,current_participants <= max_participants" json:"maxParticipants"`
	CurrentParticipants int     `gorm:"not null;default:0;check:chk_events_participants,current_participants >= 0" json:"currentParticipants"`
	Price               float64 `gorm:"not null;default:0" json:"price"`
	Duration            float64 `gorm:"not null" json:"duration"`

	Difficulty Difficulty `gorm:"size:16;not null;default:'Moderate'" json:"difficulty"`
	Status     Status     `gorm:"size:16;not null;default:'upcoming';index" json:"status"`
	Progress   int        `gorm:"not null;default:0;check:chk_events_progress,progress BETWEEN 0 AND 100" json:"progress"`

	Requirements datatypes.JSONSlice[string]   `gorm:"type:jsonb" json:"requirements"`
	Highlights   datatypes.JSONSlice[string]   `gorm:"type:jsonb" json:"highlights"`
	Organizer    datatypes.JSONType[Organizer] `gorm:"type:jsonb" json:"organizer"`

	CreatedBy string     `gorm:"type:uuid;not null;index" json:"createdBy"`
	Creator   *auth.User `gorm:"foreignKey:CreatedBy;references:ID;constraint:OnDelete:RESTRICT" json:"creator,omitempty"`
	IsActive  bool       `gorm:"not null;default:true;index" json:"isActive"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	RegistrationCount int64 `gorm:"-" json:"registrationCount,omitempty"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Filter drives both the public catalog and the admin listing.
type Filter struct {
	Search     string
	Category   Category
	Status     Status // empty means any status
	CreatedBy  string
	OnlyActive bool
	SortBy     string
	SortDesc   bool
	Limit      int
	Offset     int
}

// Stats is the admin event dashboard summary.
type Stats struct {
	TotalEvents        int64 `json:"totalEvents"`
	ActiveEvents       int64 `json:"activeEvents"`
	UpcomingEvents     int64 `json:"upcomingEvents"`
	TotalRegistrations int64 `json:"totalRegistrations"`
}
