package mapper

import (
	"encoding/json"
	"fmt"

	"forge-ai-be/internal/entity"
	"forge-ai-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(row *model.ForgeSession) (*entity.Session, error) {
	if row == nil {
		return nil, nil
	}

	var session entity.Session
	if err := json.Unmarshal(row.Document, &session); err != nil {
		return nil, fmt.Errorf("decode session document %s: %w", row.ForgeId, err)
	}
	if session.Todos == nil {
		session.Todos = map[string][]entity.Briefing{}
	}
	session.Version = row.Version
	return &session, nil
}

func (m *SessionMapper) ToModel(forgeId string, session *entity.Session) (*model.ForgeSession, error) {
	if session == nil {
		return nil, nil
	}

	doc, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session document %s: %w", forgeId, err)
	}
	return &model.ForgeSession{
		ForgeId:  forgeId,
		Document: doc,
		Version:  session.Version,
	}, nil
}
