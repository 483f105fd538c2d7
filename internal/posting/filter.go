package posting

import (
	"net/url"
	"strings"
)

// Filter holds list criteria. Empty fields mean "no filter".
type Filter struct {
	JobTitle string
	Location string
	JobType  JobType
	// Salary is matched as a substring of the free-text salary range; it is
	// not a numeric bound.
	Salary string
}

// FilterFromQuery reads the list query parameters. An unknown jobType is
// dropped rather than rejected, and minSalary wins over maxSalary; both are
// substring terms.
func FilterFromQuery(q url.Values) Filter {
	f := Filter{
		JobTitle: q.Get("jobTitle"),
		Location: q.Get("location"),
	}
	if jt := JobType(q.Get("jobType")); jt.Valid() {
		f.JobType = jt
	}
	f.Salary = q.Get("minSalary")
	if f.Salary == "" {
		f.Salary = q.Get("maxSalary")
	}
	return f
}

func (f Filter) IsEmpty() bool {
	return f.JobTitle == "" && f.Location == "" && f.JobType == "" && f.Salary == ""
}

// Matches reports whether j satisfies every criterion in f.
func (f Filter) Matches(j JobPosting) bool {
	if f.JobTitle != "" && !containsFold(j.JobTitle, f.JobTitle) {
		return false
	}
	if f.Location != "" && !containsFold(j.Location, f.Location) {
		return false
	}
	if f.JobType != "" && j.JobType != f.JobType {
		return false
	}
	if f.Salary != "" && !containsFold(j.SalaryRange, f.Salary) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds an ILIKE pattern matching term literally anywhere.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
