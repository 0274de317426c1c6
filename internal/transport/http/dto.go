package http

import "github.com/internxt/meet-server/internal/domain"

type ErrorResponse struct {
	Error string `json:"error"`
}

type JoinCallRequest struct {
	Name      string `json:"name"`
	LastName  string `json:"lastName"`
	Anonymous bool   `json:"anonymous"`
}

type CallAccessResponse struct {
	Token  string `json:"token"`
	Room   string `json:"room"`
	UserID string `json:"userId"`
	AppID  string `json:"appId"`
}

type MembersResponse struct {
	Items []domain.MemberProfile `json:"items"`
}

type CountResponse struct {
	Count int `json:"count"`
}
