package tbr

// Payloads for TBR list endpoints.
type CreateListPayload struct {
	Name        string  `json:"name" mod:"trim" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type UpdateListPayload struct {
	Name        *string `json:"name,omitempty" mod:"trim" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type AddBookPayload struct {
	BookID int `json:"book_id" validate:"required,min=1"`
}
