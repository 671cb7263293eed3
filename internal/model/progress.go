package model

import "time"

// TemplateType classifies a learning progress entry. It decides which
// secondary fields are mandatory when the entry is created.
type TemplateType string

const (
	TemplateGeneral  TemplateType = "general"  // requires title + description
	TemplateTutorial TemplateType = "tutorial" // requires title + tutorialName
	TemplateProject  TemplateType = "project"  // requires title + projectName
)

// TemplateTypes lists every valid template type.
var TemplateTypes = []TemplateType{TemplateGeneral, TemplateTutorial, TemplateProject}

// Valid reports whether t is one of the known template types.
func (t TemplateType) Valid() bool {
	switch t {
	case TemplateGeneral, TemplateTutorial, TemplateProject:
		return true
	}
	return false
}

// DefaultUserName is shown for entries and comments posted without a display name.
const DefaultUserName = "Unknown User"

// LearningProgress is a user's learning journal entry. Comments and likes are
// embedded in the entry document, so every social interaction is a
// read-modify-write of the whole entry.
type LearningProgress struct {
	ID            string       `bson:"_id"`
	UserID        string       `bson:"userId"`   // owner
	UserName      string       `bson:"userName"`
	Title         string       `bson:"title"`
	Description   string       `bson:"description"`
	TemplateType  TemplateType `bson:"templateType"`
	Status        string       `bson:"status"`
	TutorialName  string       `bson:"tutorialName"`
	ProjectName   string       `bson:"projectName"`
	SkillsLearned string       `bson:"skillsLearned"`
	Challenges    string       `bson:"challenges"`
	NextSteps     string       `bson:"nextSteps"`
	CreatedAt     time.Time    `bson:"createdAt"`
	UpdatedAt     time.Time    `bson:"updatedAt"`
	Likes         []Like       `bson:"likes"`
	Comments      []Comment    `bson:"comments"` // chronological
}

// Comment is a reply on a learning progress entry.
type Comment struct {
	ID        string    `bson:"id"        json:"id"`
	UserID    string    `bson:"userId"    json:"userId"`
	UserName  string    `bson:"userName"  json:"userName"`
	Content   string    `bson:"content"   json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Like records that a user liked an entry. At most one per user per entry.
type Like struct {
	UserID    string    `bson:"userId"    json:"userId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// LikedBy reports whether userID already liked the entry.
func (p *LearningProgress) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// Comment returns the comment with the given id, or nil.
func (p *LearningProgress) Comment(id string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}
