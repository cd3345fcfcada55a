package api

// backend REST resource types, matching the wire contract field for field

// one page of a paginated listing
type Page[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

type Task struct {
	ID             int64   `json:"id"`
	ProjectID      int64   `json:"projectId"`
	Title          string  `json:"title"`
	Description    *string `json:"description"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	Deadline       *string `json:"deadline"`
	AssigneeID     *int64  `json:"assigneeId"`
	AssigneeEmail  *string `json:"assigneeEmail"`
	CreatedByID    int64   `json:"createdById"`
	CreatedByEmail string  `json:"createdByEmail"`
}

type Project struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	OwnerID     int64   `json:"ownerId"`
	OwnerEmail  string  `json:"ownerEmail"`
}

type ProjectMember struct {
	UserID      int64  `json:"userId"`
	Email       string `json:"email"`
	ProjectRole string `json:"projectRole"`
}

type Notification struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	IsRead    bool    `json:"isRead"`
	ReadAt    *string `json:"readAt"`
	CreatedAt string  `json:"createdAt"`
	RefType   *string `json:"refType"`
	RefID     *int64  `json:"refId"`
}

// the richer account profile served by /api/v1/me/profile; authoritative
// for display fields, never for permissions
type Profile struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"fullName"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Status    string  `json:"status,omitempty"`
}

// request payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type CreateTaskRequest struct {
	ProjectID   int64  `json:"projectId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	AssigneeID  int64  `json:"assigneeId,omitempty"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"` // ACTIVE/DONE/ARCHIVED
}

type AddMemberRequest struct {
	Email       string `json:"email"`
	ProjectRole string `json:"projectRole,omitempty"`
}

type UpdateProfileRequest struct {
	FullName  string  `json:"fullName"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updateAssigneeRequest struct {
	UserID int64 `json:"userId"`
}
