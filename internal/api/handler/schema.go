package handler

// apiResponse is the envelope every endpoint renders:
// {"success": bool, "message": string, "data": ...}.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginData struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// --- Books ---

type createBookRequest struct {
	Title   string `json:"title"   validate:"required"`
	Caption string `json:"caption" validate:"required"`
	Image   string `json:"image"   validate:"required"`
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
}

// --- Upload ---

type uploadRequest struct {
	Image string `json:"image" validate:"required"`
}

type uploadData struct {
	URL    string `json:"url"`
	Object string `json:"public_id"`
}
