package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
}

type RegisterEmployerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name" validate:"required,max=100"`
	CompanyName string `json:"company_name" validate:"required,max=200"`
	City        string `json:"city" validate:"omitempty,max=100"`
}

type CreateJobRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=10000"`
	City        string `json:"city" validate:"omitempty,max=100"`
	SalaryFrom  int    `json:"salary_from" validate:"omitempty,min=0"`
	SalaryTo    int    `json:"salary_to" validate:"omitempty,min=0"`
}

type CreateApplicationRequest struct {
	JobID       string `json:"job_id" validate:"required"`
	CoverLetter string `json:"cover_letter" validate:"omitempty,max=5000"`
}
