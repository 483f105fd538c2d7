package posting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SamplePostings are the fixed rows written by the seed command.
var SamplePostings = []JobPosting{
	{
		JobTitle:            "Full Stack Developer",
		CompanyName:         "Tech Corp",
		Location:            "San Francisco, CA",
		JobType:             JobTypeFullTime,
		SalaryRange:         "$80,000 - $120,000",
		JobDescription:      "We are looking for a talented Full Stack Developer to join our team. You will be responsible for developing and maintaining web applications using modern technologies.",
		Requirements:        "Bachelor's degree in Computer Science or related field. 3+ years of experience with React, Node.js, and databases. Strong problem-solving skills.",
		Responsibilities:    "Develop and maintain web applications. Collaborate with cross-functional teams. Write clean, maintainable code. Participate in code reviews.",
		ApplicationDeadline: date(2024, time.December, 31),
	},
	{
		JobTitle:            "UX/UI Designer",
		CompanyName:         "Design Studio",
		Location:            "New York, NY",
		JobType:             JobTypeFullTime,
		SalaryRange:         "$70,000 - $100,000",
		JobDescription:      "Join our creative team as a UX/UI Designer. You will create intuitive and engaging user experiences for our digital products.",
		Requirements:        "Bachelor's degree in Design or related field. 2+ years of experience with Figma, Sketch, or Adobe Creative Suite. Portfolio required.",
		Responsibilities:    "Create wireframes and prototypes. Conduct user research. Design user interfaces. Collaborate with developers.",
		ApplicationDeadline: date(2024, time.November, 30),
	},
	{
		JobTitle:            "Marketing Intern",
		CompanyName:         "StartUp Inc",
		Location:            "Austin, TX",
		JobType:             JobTypeInternship,
		SalaryRange:         "$15 - $20 per hour",
		JobDescription:      "Great opportunity for a marketing student to gain hands-on experience in digital marketing and social media management.",
		Requirements:        "Currently enrolled in Marketing, Communications, or related program. Basic knowledge of social media platforms. Excellent communication skills.",
		Responsibilities:    "Assist with social media campaigns. Create marketing content. Analyze campaign performance. Support marketing team initiatives.",
		ApplicationDeadline: date(2024, time.October, 15),
	},
	{
		JobTitle:            "DevOps Engineer",
		CompanyName:         "Cloud Solutions",
		Location:            "Seattle, WA",
		JobType:             JobTypeContract,
		SalaryRange:         "$90,000 - $130,000",
		JobDescription:      "We need an experienced DevOps Engineer to help us scale our cloud infrastructure and improve our deployment processes.",
		Requirements:        "5+ years of experience with AWS/Azure. Experience with Docker, Kubernetes, and CI/CD pipelines. Strong scripting skills.",
		Responsibilities:    "Manage cloud infrastructure. Implement CI/CD pipelines. Monitor system performance. Ensure security best practices.",
		ApplicationDeadline: date(2024, time.December, 15),
	},
}

// Seed empties the store and writes SamplePostings in order, each with a
// fresh id and timestamps taken from now.
func Seed(ctx context.Context, repo Repository, now func() time.Time) ([]JobPosting, error) {
	if err := repo.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear job postings: %w", err)
	}

	out := make([]JobPosting, 0, len(SamplePostings))
	for _, sample := range SamplePostings {
		j := sample
		j.ID = uuid.NewString()
		ts := now().UTC()
		j.CreatedAt = ts
		j.UpdatedAt = ts
		if err := repo.Create(ctx, &j); err != nil {
			return nil, fmt.Errorf("seed %q: %w", j.JobTitle, err)
		}
		out = append(out, j)
	}
	return out, nil
}
