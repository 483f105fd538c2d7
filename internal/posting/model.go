package posting

import "time"

type JobType string

const (
	JobTypeFullTime   JobType = "FULL_TIME"
	JobTypePartTime   JobType = "PART_TIME"
	JobTypeContract   JobType = "CONTRACT"
	JobTypeInternship JobType = "INTERNSHIP"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// JobPosting is the only persisted entity.
type JobPosting struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"id"`
	JobTitle            string    `gorm:"type:text;not null" json:"jobTitle"`
	CompanyName         string    `gorm:"type:text;not null" json:"companyName"`
	Location            string    `gorm:"type:text;not null" json:"location"`
	JobType             JobType   `gorm:"type:text;not null" json:"jobType"`
	SalaryRange         string    `gorm:"type:text;not null" json:"salaryRange"`
	JobDescription      string    `gorm:"type:text;not null" json:"jobDescription"`
	Requirements        string    `gorm:"type:text;not null" json:"requirements"`
	Responsibilities    string    `gorm:"type:text;not null" json:"responsibilities"`
	ApplicationDeadline time.Time `gorm:"type:timestamptz;not null" json:"applicationDeadline"`
	CreatedAt           time.Time `gorm:"type:timestamptz;not null" json:"createdAt"`
	UpdatedAt           time.Time `gorm:"type:timestamptz;not null" json:"updatedAt"`
}

func (JobPosting) TableName() string { return "job_postings" }

// Patch is a partial update. Zero-valued fields are left untouched, so a
// patch can never clear a text field.
type Patch struct {
	JobTitle            string
	CompanyName         string
	Location            string
	JobType             JobType
	SalaryRange         string
	JobDescription      string
	Requirements        string
	Responsibilities    string
	ApplicationDeadline *time.Time
	UpdatedAt           time.Time
}

func (p Patch) Apply(j *JobPosting) {
	if p.JobTitle != "" {
		j.JobTitle = p.JobTitle
	}
	if p.CompanyName != "" {
		j.CompanyName = p.CompanyName
	}
	if p.Location != "" {
		j.Location = p.Location
	}
	if p.JobType != "" {
		j.JobType = p.JobType
	}
	if p.SalaryRange != "" {
		j.SalaryRange = p.SalaryRange
	}
	if p.JobDescription != "" {
		j.JobDescription = p.JobDescription
	}
	if p.Requirements != "" {
		j.Requirements = p.Requirements
	}
	if p.Responsibilities != "" {
		j.Responsibilities = p.Responsibilities
	}
	if p.ApplicationDeadline != nil {
		j.ApplicationDeadline = *p.ApplicationDeadline
	}
	j.UpdatedAt = p.UpdatedAt
}

// Columns returns the column assignments for the patch, keyed by column name.
func (p Patch) Columns() map[string]any {
	cols := map[string]any{"updated_at": p.UpdatedAt}
	set := func(col, v string) {
		if v != "" {
			cols[col] = v
		}
	}
	set("job_title", p.JobTitle)
	set("company_name", p.CompanyName)
	set("location", p.Location)
	set("job_type", string(p.JobType))
	set("salary_range", p.SalaryRange)
	set("job_description", p.JobDescription)
	set("requirements", p.Requirements)
	set("responsibilities", p.Responsibilities)
	if p.ApplicationDeadline != nil {
		cols["application_deadline"] = *p.ApplicationDeadline
	}
	return cols
}
