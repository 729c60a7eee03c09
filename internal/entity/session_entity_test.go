package entity

import (
	"testing"
)

func TestNewDefaultSession(t *testing.T) {
	s := NewDefaultSession()

	if len(s.Roles) != 2 {
		t.Fatalf("roles = %d, want 2", len(s.Roles))
	}
	if s.Roles[0].Name != "Konrad" || s.Roles[0].Title != "Product Lead" {
		t.Errorf("role 1 = %+v", s.Roles[0])
	}
	if s.Roles[1].Name != "Eike" || s.Roles[1].Title != "General Consultant" {
		t.Errorf("role 2 = %+v", s.Roles[1])
	}
	if s.Goal != "Create MVP scope for new product idea" {
		t.Errorf("goal = %q", s.Goal)
	}
	if s.Contributions == nil || s.Syntheses == nil || s.Todos == nil || s.RoleChats == nil {
		t.Error("collections must be initialized, not nil")
	}
}

func TestAddContribution(t *testing.T) {
	s := NewDefaultSession()

	c, err := s.AddContribution("1", "Let's keep scope small")
	if err != nil {
		t.Fatalf("AddContribution() error = %v", err)
	}
	if c.Id == "" {
		t.Error("contribution id must be assigned")
	}
	if c.AuthorName != "Konrad" || c.AuthorTitle != "Product Lead" {
		t.Errorf("author snapshot = %q/%q", c.AuthorName, c.AuthorTitle)
	}
	if c.Timestamp.IsZero() {
		t.Error("timestamp must be set")
	}
	if len(s.Contributions) != 1 {
		t.Errorf("contributions = %d, want 1", len(s.Contributions))
	}
}

func TestAddContributionUnknownRole(t *testing.T) {
	s := NewDefaultSession()

	if _, err := s.AddContribution("99", "hello"); err == nil {
		t.Fatal("expected error for unknown author role")
	}
	if len(s.Contributions) != 0 {
		t.Error("failed add must not mutate the document")
	}
}

func TestAppendSynthesis(t *testing.T) {
	s := NewDefaultSession()

	briefings := []Briefing{
		{RoleId: "1", Briefing: "Konrad briefing"},
		{RoleId: "2", Briefing: "Eike briefing"},
	}
	s.AppendSynthesis(Synthesis{Id: "syn-1", Content: "context"}, briefings)

	if latest := s.LatestSynthesis(); latest == nil || latest.Id != "syn-1" {
		t.Fatalf("LatestSynthesis() = %+v", latest)
	}
	if len(s.Todos["syn-1"]) != 2 {
		t.Errorf("briefing set = %d, want 2", len(s.Todos["syn-1"]))
	}
	if got := s.BriefingFor("syn-1", "2"); got != "Eike briefing" {
		t.Errorf("BriefingFor() = %q", got)
	}
	if got := s.BriefingFor("syn-1", "99"); got != "" {
		t.Errorf("BriefingFor() unknown role = %q, want empty", got)
	}
}

func TestAppendChatMessage(t *testing.T) {
	s := NewDefaultSession()

	chat, msg := s.AppendChatMessage("1", ChatAuthorUser, "What next?")
	if chat.RoleId != "1" {
		t.Errorf("chat role = %q", chat.RoleId)
	}
	if msg.Author != ChatAuthorUser || msg.Content != "What next?" {
		t.Errorf("message = %+v", msg)
	}

	// Second message reuses the existing chat.
	chat2, _ := s.AppendChatMessage("1", ChatAuthorAI, "Define the scope.")
	if chat2 != chat {
		t.Error("second message must land in the same role chat")
	}
	if len(s.RoleChats) != 1 {
		t.Errorf("role chats = %d, want 1", len(s.RoleChats))
	}
	if len(chat.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(chat.Messages))
	}
}

func TestFindContribution(t *testing.T) {
	s := NewDefaultSession()
	c, _ := s.AddContribution("2", "needs research")

	if found := s.FindContribution(c.Id); found == nil || found.Text != "needs research" {
		t.Errorf("FindContribution() = %+v", found)
	}
	if s.FindContribution("missing") != nil {
		t.Error("unknown id must return nil")
	}
}
