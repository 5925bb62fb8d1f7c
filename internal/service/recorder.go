package service

import (
	"encoding/json"
	"time"

	"officina/internal/model"

	"github.com/google/uuid"
)

// ActionRecorder accepts audit records without blocking the request path.
// Recording is best-effort: a dropped or failed write never affects the
// operation that triggered it.
type ActionRecorder interface {
	Record(action model.Action)
}

func newAction(actionType, userID string, siteID uuid.UUID, data map[string]interface{}) model.Action {
	payload, _ := json.Marshal(data)
	var sid *uuid.UUID
	if siteID != uuid.Nil {
		sid = &siteID
	}
	return model.Action{
		Type:      actionType,
		UserID:    userID,
		SiteID:    sid,
		Data:      payload,
		CreatedAt: time.Now(),
	}
}
