package stats

// Query params for stats endpoints.
type YearQuery struct {
	Year *string `query:"year" json:"year,omitempty" validate:"omitempty,len=4,number"`
}

type MonthlyQuery struct {
	Year string `query:"year" json:"year" validate:"required,len=4,number"`
}

type TopQuery struct {
	Year  *string `query:"year" json:"year,omitempty" validate:"omitempty,len=4,number"`
	Limit int     `query:"limit" json:"limit,omitempty" default:"10" validate:"min=1,max=100"`
}
