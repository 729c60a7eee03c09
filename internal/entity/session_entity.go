package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	ChatAuthorUser = "user"
	ChatAuthorAI   = "ai"
)

type Role struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Contribution is append-only; the author fields are denormalized from the
// role roster at creation time.
type Contribution struct {
	Id          string    `json:"id"`
	AuthorId    string    `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	AuthorTitle string    `json:"authorTitle"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
}

type Synthesis struct {
	Id                  string    `json:"id"`
	Content             string    `json:"content"`
	Timestamp           time.Time `json:"timestamp"`
	SourceContributions []string  `json:"sourceContributions"`
}

type Briefing struct {
	RoleId   string `json:"roleId"`
	Briefing string `json:"briefing"`
}

type ChatMessage struct {
	Id        string    `json:"id"`
	Author    string    `json:"author"` // "user" or "ai"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type RoleChat struct {
	RoleId         string        `json:"roleId"`
	Messages       []ChatMessage `json:"messages"`
	LastBriefingId *string       `json:"lastBriefingId"`
}

// Session is the whole per-forge document. Mutations go through the helpers
// below; persistence replaces the document as a unit.
type Session struct {
	Roles         []Role                `json:"roles"`
	Goal          string                `json:"goal"`
	Contributions []Contribution        `json:"contributions"`
	Syntheses     []Synthesis           `json:"syntheses"`
	Todos         map[string][]Briefing `json:"todos"`
	RoleChats     []*RoleChat           `json:"roleChats"`

	// Version is the optimistic concurrency token of the storage row.
	// It is not part of the document payload.
	Version int64 `json:"-"`
}

// NewDefaultSession returns the seed state every forge starts from (and
// returns to on reset).
func NewDefaultSession() *Session {
	return &Session{
		Roles: []Role{
			{Id: "1", Name: "Konrad", Title: "Product Lead"},
			{Id: "2", Name: "Eike", Title: "General Consultant"},
		},
		Goal:          "Create MVP scope for new product idea",
		Contributions: []Contribution{},
		Syntheses:     []Synthesis{},
		Todos:         map[string][]Briefing{},
		RoleChats:     []*RoleChat{},
	}
}

func (s *Session) FindRole(roleId string) *Role {
	for i := range s.Roles {
		if s.Roles[i].Id == roleId {
			return &s.Roles[i]
		}
	}
	return nil
}

func (s *Session) FindContribution(contributionId string) *Contribution {
	for i := range s.Contributions {
		if s.Contributions[i].Id == contributionId {
			return &s.Contributions[i]
		}
	}
	return nil
}

func (s *Session) LatestSynthesis() *Synthesis {
	if len(s.Syntheses) == 0 {
		return nil
	}
	return &s.Syntheses[len(s.Syntheses)-1]
}

// BriefingFor returns the briefing text a role received for a synthesis, or
// "" when none was produced.
func (s *Session) BriefingFor(synthesisId, roleId string) string {
	for _, b := range s.Todos[synthesisId] {
		if b.RoleId == roleId {
			return b.Briefing
		}
	}
	return ""
}

// AddContribution appends a contribution authored by an existing role.
// Fails when the author id does not resolve.
func (s *Session) AddContribution(roleId, text string) (*Contribution, error) {
	author := s.FindRole(roleId)
	if author == nil {
		return nil, fmt.Errorf("author role %s not found", roleId)
	}

	contribution := Contribution{
		Id:          uuid.NewString(),
		AuthorId:    author.Id,
		AuthorName:  author.Name,
		AuthorTitle: author.Title,
		Text:        text,
		Timestamp:   time.Now().UTC(),
	}
	s.Contributions = append(s.Contributions, contribution)
	return &s.Contributions[len(s.Contributions)-1], nil
}

// AppendSynthesis records one synthesis and its briefing set atomically within
// the document.
func (s *Session) AppendSynthesis(synthesis Synthesis, briefings []Briefing) {
	s.Syntheses = append(s.Syntheses, synthesis)
	if s.Todos == nil {
		s.Todos = map[string][]Briefing{}
	}
	s.Todos[synthesis.Id] = briefings
}

// AppendChatMessage adds a message to the role's chat, creating the chat on
// first use.
func (s *Session) AppendChatMessage(roleId, author, content string) (*RoleChat, *ChatMessage) {
	var chat *RoleChat
	for _, rc := range s.RoleChats {
		if rc.RoleId == roleId {
			chat = rc
			break
		}
	}
	if chat == nil {
		chat = &RoleChat{RoleId: roleId, Messages: []ChatMessage{}}
		s.RoleChats = append(s.RoleChats, chat)
	}

	chat.Messages = append(chat.Messages, ChatMessage{
		Id:        uuid.NewString(),
		Author:    author,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	return chat, &chat.Messages[len(chat.Messages)-1]
}
