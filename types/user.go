package types

// User represents an account in the system.
// The record is keyed by email; there is no surrogate ID.
type User struct {
	// Email is the unique identifier of the user. It is immutable
	// after signup.
	Email string `json:"email" dynamodbav:"email" db:"email"`

	// Name is the user's display or full name.
	Name string `json:"name" dynamodbav:"name" db:"name"`

	// Phone is the user's phone number.
	Phone string `json:"phone" dynamodbav:"phone" db:"phone"`

	// Address is the user's postal address.
	Address string `json:"address" dynamodbav:"address" db:"address"`

	// Occupation is the user's self-reported occupation.
	Occupation string `json:"occupation" dynamodbav:"occupation" db:"occupation"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" dynamodbav:"passwordHash" db:"password_hash"`

	// ProfileImageURL points at the user's profile image in object
	// storage. Empty until the user uploads an image.
	ProfileImageURL string `json:"profileImageUrl" dynamodbav:"profileImageUrl" db:"profile_image_url"`
}

// UserUpdate is a sparse profile update. A nil field was not supplied
// by the caller. An empty string is treated the same as nil: this path
// cannot blank out a field, only overwrite it with a new value.
type UserUpdate struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	Occupation      *string `json:"occupation"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// Fields returns the attribute name/value pairs the update actually
// provides, skipping nil and empty values.
func (u UserUpdate) Fields() map[string]string {
	fields := make(map[string]string)
	set := func(key string, value *string) {
		if value != nil && *value != "" {
			fields[key] = *value
		}
	}
	set("name", u.Name)
	set("phone", u.Phone)
	set("address", u.Address)
	set("occupation", u.Occupation)
	set("profileImageUrl", u.ProfileImageURL)
	return fields
}

// Apply overwrites the user's attributes with the update's provided
// fields, leaving all others untouched.
func (u UserUpdate) Apply(user *User) {
	for key, value := range u.Fields() {
		switch key {
		case "name":
			user.Name = value
		case "phone":
			user.Phone = value
		case "address":
			user.Address = value
		case "occupation":
			user.Occupation = value
		case "profileImageUrl":
			user.ProfileImageURL = value
		}
	}
}
