package kernel

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (j JobID) String() string { return string(j) }
func (j JobID) IsEmpty() bool  { return string(j) == "" }

type CandidateID string

func NewCandidateID(id string) CandidateID { return CandidateID(id) }
func (c CandidateID) String() string       { return string(c) }
func (c CandidateID) IsEmpty() bool        { return string(c) == "" }

type AlertID string

func NewAlertID(id string) AlertID { return AlertID(id) }
func (a AlertID) String() string   { return string(a) }
func (a AlertID) IsEmpty() bool    { return string(a) == "" }

type ApplicationID string

func NewApplicationID(id string) ApplicationID { return ApplicationID(id) }
func (a ApplicationID) String() string         { return string(a) }
func (a ApplicationID) IsEmpty() bool          { return string(a) == "" }

// Reference data identifiers used by job postings and alert criteria

type FunctionalAreaID string

func (f FunctionalAreaID) String() string { return string(f) }

type IndustryID string

func (i IndustryID) String() string { return string(i) }
func (i IndustryID) IsEmpty() bool  { return string(i) == "" }

type JobRoleID string

func (r JobRoleID) String() string { return string(r) }
func (r JobRoleID) IsEmpty() bool  { return string(r) == "" }

type SkillID string

func (s SkillID) String() string { return string(s) }
