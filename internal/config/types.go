package config

type Config struct {
	APIEndpoint string
	TokenPath   string
	Environment string
	RequestRate float64
}

type AuthFlags struct {
	FullName string
	Email    string
	Password string
}

type PageFlags struct {
	Page    int
	Size    int
	Status  string
	Keyword string
}

type TaskFlags struct {
	PageFlags
	ProjectID  int64
	TaskID     int64
	Title      string
	Desc       string
	Priority   string
	Deadline   string
	AssigneeID int64
}

type ProjectFlags struct {
	PageFlags
	ProjectID int64
	Name      string
	Code      string
	Desc      string
}

type MemberFlags struct {
	ProjectID int64
	UserID    int64
	Email     string
	Role      string
}

type NotificationFlags struct {
	PageFlags
	ID     int64
	Type   string
	Unread bool
}

type ProfileFlags struct {
	FullName  string
	Phone     string
	AvatarURL string
}
