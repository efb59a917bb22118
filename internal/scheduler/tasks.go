package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskRescoreLead = "scoring.rescore_lead"

const TaskRescoreOrganization = "scoring.rescore_organization"

type RescoreLeadPayload struct {
	LeadID         string `json:"leadId"`
	OrganizationID string `json:"organizationId"`
}

type RescoreOrganizationPayload struct {
	OrganizationID string `json:"organizationId"`
}

func NewRescoreLeadTask(payload RescoreLeadPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRescoreLead, data), nil
}

func ParseRescoreLeadPayload(task *asynq.Task) (RescoreLeadPayload, error) {
	var payload RescoreLeadPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RescoreLeadPayload{}, err
	}
	return payload, nil
}

func NewRescoreOrganizationTask(payload RescoreOrganizationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRescoreOrganization, data), nil
}

func ParseRescoreOrganizationPayload(task *asynq.Task) (RescoreOrganizationPayload, error) {
	var payload RescoreOrganizationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RescoreOrganizationPayload{}, err
	}
	return payload, nil
}
