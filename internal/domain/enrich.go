package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EnrichWaterObject attaches the survey priority and stamps ProcessedAt.
// An object with an unreadable passport date keeps a nil Priority.
func EnrichWaterObject(obj WaterObject) WaterObject {
	now := clock.Now()
	if passport, err := ParsePassportDate(obj.PassportDate); err == nil {
		p := ComputePriority(obj.ConditionCategory, passport, now)
		obj.Priority = &p
	}
	obj.ProcessedAt = now
	return obj
}

// SerializeWaterObject marshals an object into an OutputEvent keyed by ID.
func SerializeWaterObject(obj WaterObject) (OutputEvent, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize water object: %w", err)
	}

	headers := map[string]string{
		"resource_type": string(obj.ResourceType),
		"processed_at":  obj.ProcessedAt.Format(time.RFC3339),
	}
	if obj.Priority != nil {
		headers["priority_level"] = string(obj.Priority.Level)
	}

	return OutputEvent{
		Key:     []byte(obj.ID),
		Value:   data,
		Headers: headers,
	}, nil
}
