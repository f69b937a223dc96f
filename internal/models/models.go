package models

import "time"

// TaskStatus is the task lifecycle state.
type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// CollaboratorRole scopes a user's association with a concept.
type CollaboratorRole string

const (
	RoleContributor CollaboratorRole = "Contributor"
	RoleEditor      CollaboratorRole = "Editor"
	RoleViewer      CollaboratorRole = "Viewer"
)

func (r CollaboratorRole) Valid() bool {
	switch r {
	case RoleContributor, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID   int64  `db:"user_id" json:"user_id"`
	Name string `db:"name" json:"name"`
	Role string `db:"role" json:"role"`
}

type Category struct {
	ID   int64  `db:"category_id" json:"category_id"`
	Name string `db:"name" json:"name"`
}

type Concept struct {
	ID         int64     `db:"entity_id" json:"entity_id"`
	Type       string    `db:"type" json:"type"`
	Title      string    `db:"title" json:"title"`
	CreatedOn  time.Time `db:"created_on" json:"created_on"`
	CategoryID *int64    `db:"category_id" json:"category_id"`
	UserID     *int64    `db:"user_id" json:"user_id"`
}

type Note struct {
	ID        int64     `db:"note_id" json:"note_id"`
	ConceptID int64     `db:"entity_id" json:"entity_id"`
	Body      string    `db:"body" json:"body"`
	CreatedOn time.Time `db:"created_on" json:"created_on"`
}

type Task struct {
	ID          int64      `db:"task_id" json:"task_id"`
	ConceptID   int64      `db:"entity_id" json:"entity_id"`
	Description string     `db:"description" json:"description"`
	DueOn       time.Time  `db:"due_on" json:"due_on"`
	Status      TaskStatus `db:"status" json:"status"`
	RemindOn    *time.Time `db:"remind_on" json:"remind_on"`
}

type Link struct {
	ID           int64  `db:"link_id" json:"link_id"`
	SrcConceptID int64  `db:"src_concept_id" json:"src_concept_id"`
	DstConceptID int64  `db:"dst_concept_id" json:"dst_concept_id"`
	RelationType string `db:"relation_type" json:"relation_type"`
}

// LinkView is a link joined with both endpoint titles.
type LinkView struct {
	ID           int64  `db:"link_id" json:"link_id"`
	Source       string `db:"source" json:"source"`
	Destination  string `db:"destination" json:"destination"`
	RelationType string `db:"relation_type" json:"relation_type"`
}

type Collaborator struct {
	UserID    int64            `db:"user_id" json:"user_id"`
	ConceptID int64            `db:"concept_id" json:"concept_id"`
	Role      CollaboratorRole `db:"role" json:"role"`
}

// CollaboratorView is a collaborator row joined with user and concept names.
type CollaboratorView struct {
	UserName     string           `db:"user_name" json:"user_name"`
	ConceptTitle string           `db:"concept_title" json:"concept_title"`
	Role         CollaboratorRole `db:"role" json:"role"`
}

type Tag struct {
	ID    int64  `db:"tag_id" json:"tag_id"`
	Label string `db:"tag" json:"tag"`
}

// TaggedConcept is one concept/tag pairing from the concept_tags join.
type TaggedConcept struct {
	ConceptTitle string `db:"concept_title" json:"concept_title"`
	Tag          string `db:"tag" json:"tag"`
}

type Attachment struct {
	ID        int64  `db:"attachment_id" json:"attachment_id"`
	ConceptID int64  `db:"entity_id" json:"entity_id"`
	FilePath  string `db:"file_path" json:"file_path"`
	FileType  string `db:"file_type" json:"file_type"`
}

// AttachmentView is an attachment joined with its concept title.
type AttachmentView struct {
	ID           int64  `db:"attachment_id" json:"attachment_id"`
	ConceptTitle string `db:"concept_title" json:"concept_title"`
	FilePath     string `db:"file_path" json:"file_path"`
	FileType     string `db:"file_type" json:"file_type"`
}

// ConceptDetails aggregates a concept with its owned children, the shape
// GetConceptDetails returns.
type ConceptDetails struct {
	Concept Concept `json:"concept"`
	Notes   []Note  `json:"notes"`
	Tasks   []Task  `json:"tasks"`
	Tags    []Tag   `json:"tags"`
}

// LinkedConcept is a concept reachable from another via a link in either
// direction. Direction is "outgoing" when the queried concept is the source,
// "incoming" when it is the destination.
type LinkedConcept struct {
	ConceptID    int64  `db:"entity_id" json:"entity_id"`
	Title        string `db:"title" json:"title"`
	RelationType string `db:"relation_type" json:"relation_type"`
	Direction    string `db:"direction" json:"direction"`
}

type CreateUserInput struct {
	Name string
	Role string
}

type CreateConceptInput struct {
	Type       string
	Title      string
	CategoryID *int64
	UserID     *int64
}

type CreateNoteInput struct {
	ConceptID int64
	Body      string
}

type CreateTaskInput struct {
	ConceptID   int64
	Description string
	DueOn       time.Time
	RemindOn    *time.Time
}

type CreateLinkInput struct {
	SrcConceptID int64
	DstConceptID int64
	RelationType string
}

type AddAttachmentInput struct {
	ConceptID int64
	FilePath  string
	FileType  string
}

// Report row shapes. Column aliases follow the analytics queries.

type NoteCount struct {
	Title     string `db:"title" json:"title"`
	NoteCount int64  `db:"note_count" json:"note_count"`
}

type PendingTaskCount struct {
	Title        string `db:"title" json:"title"`
	PendingTasks int64  `db:"pending_tasks" json:"pending_tasks"`
}

type AvgTasks struct {
	Title    string  `db:"title" json:"title"`
	AvgTasks float64 `db:"avg_tasks" json:"avg_tasks"`
}

type TaskWithOwner struct {
	Description string     `db:"description" json:"description"`
	Status      TaskStatus `db:"status" json:"status"`
	Concept     string     `db:"concept" json:"concept"`
	Owner       string     `db:"owner" json:"owner"`
}

type ConceptSummary struct {
	ConceptID int64  `db:"entity_id" json:"entity_id"`
	Title     string `db:"title" json:"title"`
	Type      string `db:"type" json:"type"`
	NoteCount int64  `db:"note_count" json:"note_count"`
	TaskCount int64  `db:"task_count" json:"task_count"`
}
