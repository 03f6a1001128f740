package dto

import (
	"time"

	"github.com/roeeblo/smart-job-tracker/internal/model"
)

type JobResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	Location  string    `json:"location"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateJobRequest struct {
	Company  string `json:"company" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Status   string `json:"status"`
	Source   string `json:"source"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// UpdateJobRequest carries only the fields the client sent. Nil means
// "leave unchanged", so an empty string is still a valid new value.
type UpdateJobRequest struct {
	Company  *string `json:"company"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
	Source   *string `json:"source"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

func (r UpdateJobRequest) IsEmpty() bool {
	return r.Company == nil && r.Role == nil && r.Status == nil &&
		r.Source == nil && r.Location == nil && r.Notes == nil
}

func ToJobResponse(job *model.JobApplication) JobResponse {
	return JobResponse{
		ID:        job.ID,
		UserID:    job.UserID,
		Company:   job.Company,
		Role:      job.Role,
		Status:    job.Status,
		Source:    job.Source,
		Location:  job.Location,
		Notes:     job.Notes,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}

func ToJobResponses(jobs []model.JobApplication) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, ToJobResponse(&jobs[i]))
	}
	return out
}
