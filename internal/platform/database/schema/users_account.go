package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table               string
	ID                  string
	Username            string
	Email               string
	FullName            string
	Password            string
	Role                string
	AvatarURL           string
	RefreshToken        string
	ResetPasswordToken  string
	ResetPasswordExpiry string
	CreatedAt           string
	UpdatedAt           string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:               "users.account",
	ID:                  "id",
	Username:            "username",
	Email:               "email",
	FullName:            "fullname",
	Password:            "passwordhash",
	Role:                "role",
	AvatarURL:           "avatarurl",
	RefreshToken:        "refreshtoken",
	ResetPasswordToken:  "resetpasswordtoken",
	ResetPasswordExpiry: "resetpasswordexpiry",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FullName, t.Password, t.Role,
		t.AvatarURL, t.RefreshToken, t.ResetPasswordToken,
		t.ResetPasswordExpiry, t.CreatedAt, t.UpdatedAt,
	}
}
