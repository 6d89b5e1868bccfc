package auth

import "strings"

// User is the profile stored alongside the token pair.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Session is the credential triple held by the local store. The zero value
// is a guest session.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// Authenticated reports whether the session can back authenticated writes.
// Both tokens and a user profile must be present: a dangling access token
// without its refresh token is never treated as a valid session.
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.RefreshToken != "" && s.User != nil
}

// Guest reports whether the session holds no credentials at all.
func (s Session) Guest() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.User == nil
}

// Initials derives the display initials for a user: first letters of the
// first and last words of the name, or the start of the email local part
// when no name is set.
func Initials(u *User) string {
	if u == nil {
		return ""
	}

	if fields := strings.Fields(u.Name); len(fields) > 0 {
		first := firstRune(fields[0])
		if len(fields) == 1 {
			return strings.ToUpper(first)
		}
		last := firstRune(fields[len(fields)-1])
		return strings.ToUpper(first + last)
	}

	local, _, _ := strings.Cut(u.Email, "@")
	runes := []rune(local)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
