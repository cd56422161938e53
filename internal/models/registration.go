package models

// Registration is a sign-up form. The concrete type is picked once from the
// requested role and carries that role's required fields.
type Registration interface {
	Role() Role
	// Bind fills the form from value, which looks up a submitted field.
	Bind(value func(key string) string)
	// Fields returns the values forwarded to the backend. Client-only
	// fields such as the password confirmation are not included.
	Fields() map[string]string
}

// CustomerRegistration is the sign-up form for customers.
type CustomerRegistration struct {
	FullName        string `form:"fullName" validate:"required,min=2"`
	Username        string `form:"username" validate:"required,min=3,max=100"`
	PhoneNumber     string `form:"phoneNumber" validate:"required,min=7,max=20"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

// Role implements Registration.
func (r *CustomerRegistration) Role() Role { return RoleCustomer }

// Bind fills the form from value.
func (r *CustomerRegistration) Bind(value func(key string) string) {
	r.FullName = value("fullName")
	r.Username = value("username")
	r.PhoneNumber = value("phoneNumber")
	r.Email = value("email")
	r.Password = value("password")
	r.ConfirmPassword = value("confirmPassword")
}

// Fields returns the form fields forwarded to the backend.
func (r *CustomerRegistration) Fields() map[string]string {
	return map[string]string{
		"fullName":    r.FullName,
		"username":    r.Username,
		"phoneNumber": r.PhoneNumber,
		"email":       r.Email,
		"password":    r.Password,
		"role":        string(RoleCustomer),
	}
}

// OwnerRegistration is the sign-up form for cafe owners.
type OwnerRegistration struct {
	CustomerRegistration
	CafeName    string `form:"cafeName" validate:"required,min=2,max=100"`
	CafeAddress string `form:"cafeAddress" validate:"required,max=200"`
}

// Role implements Registration.
func (r *OwnerRegistration) Role() Role { return RoleOwner }

// Bind fills the form, cafe details included.
func (r *OwnerRegistration) Bind(value func(key string) string) {
	r.CustomerRegistration.Bind(value)
	r.CafeName = value("cafeName")
	r.CafeAddress = value("cafeAddress")
}

// Fields returns the customer fields plus the cafe details.
func (r *OwnerRegistration) Fields() map[string]string {
	f := r.CustomerRegistration.Fields()
	f["role"] = string(RoleOwner)
	f["cafeName"] = r.CafeName
	f["cafeAddress"] = r.CafeAddress
	return f
}

// NewRegistration returns an empty form for role.
func NewRegistration(role Role) Registration {
	if role == RoleOwner {
		return &OwnerRegistration{}
	}
	return &CustomerRegistration{}
}

// ClientOnlyFields are never forwarded to the backend.
var ClientOnlyFields = []string{"confirmPassword"}
