package domain

type VASkill struct {
	SkillName       string  `json:"skill_name"`
	YearsExperience *string `json:"years_experience"`
}

// VAProfile is the worker side profile, one per user with role va.
type VAProfile struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Headline        *string   `json:"headline"`
	Bio             *string   `json:"bio"`
	HourlyRate      *float64  `json:"hourly_rate"`
	MonthlySalary   *float64  `json:"monthly_salary"`
	Availability    *string   `json:"availability"`
	ExperienceYears *int32    `json:"experience_years"`
	IDProofScore    int32     `json:"id_proof_score"`
	IQScore         int32     `json:"iq_score"`
	EnglishScore    int32     `json:"english_score"`
	Education       *string   `json:"education"`
	LastActive      *string   `json:"last_active"`
	IntroVideoURL   *string   `json:"intro_video_url"`
	ResumeURL       *string   `json:"resume_url"`
	ProfileViews    int32     `json:"profile_views"`
	IsFeatured      bool      `json:"is_featured"`
	Skills          []VASkill `json:"skills"`
}

type EmployerProfile struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"user_id"`
	CompanyName        *string `json:"company_name"`
	CompanyDescription *string `json:"company_description"`
	Website            *string `json:"website"`
	Industry           *string `json:"industry"`
	TeamSize           *string `json:"team_size"`
	LogoURL            *string `json:"logo_url"`
}
