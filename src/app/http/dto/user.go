package dto

import (
	"recordkeeper/src/core/domain"
	"recordkeeper/src/core/usecase"
)

// UserRequest is the payload for creating or replacing a user.
type UserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Age   int64  `json:"age" binding:"gte=0"`
}

// ToInput converts the request to a use-case input.
func (r *UserRequest) ToInput() usecase.UserInput {
	return usecase.UserInput{
		Name:  r.Name,
		Email: r.Email,
		Age:   r.Age,
	}
}

// UserResponse is the API view of a user.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Age   int64  `json:"age,omitempty"`
}

// UserFromDomain builds a UserResponse.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Age:   u.Age,
	}
}

// UsersFromDomain builds a list response, never nil.
func UsersFromDomain(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, UserFromDomain(&users[i]))
	}
	return out
}
