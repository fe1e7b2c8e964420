package transport

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	CategoryID  string `json:"category_id"`
	DueDate     string `json:"due_date"`
}

// TaskUpdateRequest uses pointers so absent fields are left untouched by the
// merge. Ownership fields are not accepted at all. Sending due_date as ""
// removes the due date.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Priority    *string `json:"priority"`
	CategoryID  *string `json:"category_id"`
	DueDate     *string `json:"due_date"`
}

type CategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
