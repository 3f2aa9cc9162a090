// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// # API Types

// User is the account representation returned by the API.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullname"`
	Avatar    string    `json:"avatar"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Record is a stored document as returned by the API.
type Record struct {
	ID            string    `json:"id"`
	FileName      string    `json:"fileName"`
	Description   string    `json:"description,omitempty"`
	CategoryTags  string    `json:"categoryTags"`
	FileUploadURL string    `json:"fileUploadUrl"`
	OwnerID       string    `json:"owner"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RecordOwner identifies the sender who uploaded a record.
type RecordOwner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

// RecordWithOwner is a record joined with its owner's public details.
type RecordWithOwner struct {
	Record
	OwnerDetails RecordOwner `json:"ownerDetails"`
}

// session is the token-pair payload of login and refresh responses. The
// client relies on cookies, so only the user is surfaced.
type session struct {
	User *User `json:"user"`
}

// # Auth Operations

/*
Login authenticates with a username or email plus password. On success the
auth cookies are captured by the jar and subsequent calls are authenticated.

Parameters:
  - ctx: context.Context
  - login: username or email.
  - password: plaintext password.

Returns:
  - *User: the authenticated account.
  - error: *APIError with status 404 for unknown accounts, 400 for a wrong
    password.
*/
func (client *Client) Login(ctx context.Context, login, password string) (*User, error) {
	body := map[string]string{"login": login, "password": password}

	result := &session{}
	if err := client.Post(ctx, "/api/v1/users/login", body, result); err != nil {
		return nil, err
	}
	return result.User, nil
}

// Logout revokes the server-side session and clears the local cookies.
func (client *Client) Logout(ctx context.Context) error {
	err := client.Post(ctx, "/api/v1/users/logout", nil, nil)
	client.expireSession()
	return err
}

// Me fetches the currently authenticated account.
func (client *Client) Me(ctx context.Context) (*User, error) {
	user := &User{}
	if err := client.Get(ctx, "/api/v1/users/me", user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword swaps the account password, verifying the old one first.
func (client *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	return client.Post(ctx, "/api/v1/users/change-password", body, nil)
}

// UpdateDetails changes the account's full name and email.
func (client *Client) UpdateDetails(ctx context.Context, fullName, email string) (*User, error) {
	body := map[string]string{"fullname": fullName, "email": email}

	user := &User{}
	if err := client.Put(ctx, "/api/v1/users/update-details", body, user); err != nil {
		return nil, err
	}
	return user, nil
}

// # Record Operations

// MyRecords lists the records owned by the authenticated sender.
func (client *Client) MyRecords(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := client.Get(ctx, "/api/v1/sender/records", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AllRecords lists every record with owner details, one page at a time.
// Receivers only.
func (client *Client) AllRecords(ctx context.Context, page, limit int) ([]RecordWithOwner, error) {
	path := fmt.Sprintf("/api/v1/receiver/getAllRecords?page=%d&limit=%d", page, limit)

	var records []RecordWithOwner
	if err := client.Get(ctx, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ViewRecord fetches a single record by its identifier.
func (client *Client) ViewRecord(ctx context.Context, recordID string) (*Record, error) {
	path := "/api/v1/records/view-record?recordId=" + url.QueryEscape(recordID)

	record := &Record{}
	if err := client.Get(ctx, path, record); err != nil {
		return nil, err
	}
	return record, nil
}
