package service

import (
	"os"
	"testing"
)

func TestRegister(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	defer os.Unsetenv("JWT_SECRET")

	mockRepo := NewMockUserRepository()
	authService := NewAuthService(mockRepo)

	tests := []struct {
		name      string
		input     RegisterInput
		shouldErr bool
	}{
		{
			name: "Valid registration",
			input: RegisterInput{
				Username: "alice",
				Email:    "alice@example.com",
				Password: "a-long-password",
				FullName: "Alice A",
			},
			shouldErr: false,
		},
		{
			name: "Invalid email",
			input: RegisterInput{
				Username: "bob",
				Email:    "not-an-email",
				Password: "a-long-password",
			},
			shouldErr: true,
		},
		{
			name: "Short username",
			input: RegisterInput{
				Username: "ab",
				Email:    "bob@example.com",
				Password: "a-long-password",
			},
			shouldErr: true,
		},
		{
			name: "Short password",
			input: RegisterInput{
				Username: "bob",
				Email:    "bob@example.com",
				Password: "short",
			},
			shouldErr: true,
		},
		{
			name: "Duplicate email",
			input: RegisterInput{
				Username: "alice2",
				Email:    "alice@example.com",
				Password: "a-long-password",
			},
			shouldErr: true,
		},
		{
			name: "Duplicate username normalized",
			input: RegisterInput{
				Username: "ALICE",
				Email:    "other@example.com",
				Password: "a-long-password",
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := authService.Register(tt.input)
			if (err != nil) != tt.shouldErr {
				t.Errorf("Register error = %v, wantErr %v", err, tt.shouldErr)
			}
			if tt.shouldErr {
				if err != nil && !IsValidation(err) {
					t.Errorf("Register error = %v, want validation error", err)
				}
				return
			}
			if resp.Token == "" {
				t.Error("Register returned empty token")
			}
			if resp.User.Username != "alice" {
				t.Errorf("username = %q, want alice", resp.User.Username)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	defer os.Unsetenv("JWT_SECRET")

	mockRepo := NewMockUserRepository()
	authService := NewAuthService(mockRepo)

	if _, err := authService.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "a-long-password",
	}); err != nil {
		t.Fatalf("seed register failed: %v", err)
	}

	tests := []struct {
		name      string
		input     LoginInput
		shouldErr bool
	}{
		{"Valid login", LoginInput{Email: "alice@example.com", Password: "a-long-password"}, false},
		{"Email case insensitive", LoginInput{Email: "ALICE@example.com", Password: "a-long-password"}, false},
		{"Wrong password", LoginInput{Email: "alice@example.com", Password: "wrong"}, true},
		{"Unknown email", LoginInput{Email: "nobody@example.com", Password: "a-long-password"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := authService.Login(tt.input)
			if (err != nil) != tt.shouldErr {
				t.Errorf("Login error = %v, wantErr %v", err, tt.shouldErr)
			}
			if tt.shouldErr {
				// Credential failures never say which part was wrong.
				if !IsAuthorization(err) {
					t.Errorf("Login error = %v, want authorization error", err)
				}
				if err.Error() != "invalid credentials" {
					t.Errorf("Login error message = %q, leaks detail", err.Error())
				}
				return
			}
			if resp.Token == "" {
				t.Error("Login returned empty token")
			}
		})
	}
}
