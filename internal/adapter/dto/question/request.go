package question

// CreateDialogRequest represents the request to add a dialog to the bank
type CreateDialogRequest struct {
	Category string `json:"category" validate:"required,min=1,max=100"`
	Text     string `json:"dialog" validate:"required,min=1,max=2000"`
}
