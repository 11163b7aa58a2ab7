package kernel

type JobTitle string

type JobDescription string

type City string

func (c City) String() string { return string(c) }
func (c City) IsEmpty() bool  { return string(c) == "" }

// OfferedSalary is the free-form salary string shown on a posting,
// e.g. "₹5-10 LPA" or the sentinel "Negotiable".
type OfferedSalary string

func (o OfferedSalary) String() string { return string(o) }

type JobType string

type ExperienceLevel string

type Specialism string
