package feedback

// SubscribeRequest is the body of POST /api/newsletter
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// SubscribeResponse acknowledges a newsletter signup
type SubscribeResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// BugReportRequest is the body of POST /api/bug-report
type BugReportRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
	Page    string `json:"page,omitempty" validate:"omitempty,max=500"`
}

// BugReportSubmittedResponse acknowledges a bug report
type BugReportSubmittedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// UpdateStatusRequest for changing a bug report status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new resolved"`
}
