package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karting_backend/internal/repositories"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestClientService_CreateClient(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewClientService(repo, nil)

	client, err := svc.CreateClient(CreateClientRequest{
		RUT:         "12.345.678-5",
		Name:        "  Camila Rojas ",
		DateOfBirth: strPtr("1990-04-28"),
	})
	require.NoError(t, err)
	assert.Equal(t, testRUT, client.RUT)
	assert.Equal(t, "Camila Rojas", client.Name)
	assert.Equal(t, 0, client.VisitFrequency)
	require.NotNil(t, client.DateOfBirth)
	assert.Equal(t, time.April, client.DateOfBirth.Month())

	_, err = svc.CreateClient(CreateClientRequest{RUT: testRUT, Name: "Other"})
	assert.True(t, errors.Is(err, ErrRUTExists))
}

func TestClientService_CreateClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateClientRequest
		wantErr error
	}{
		{"bad check digit", CreateClientRequest{RUT: "12.345.678-9", Name: "A"}, ErrClientValidation},
		{"blank name", CreateClientRequest{RUT: testRUT, Name: "   "}, ErrClientValidation},
		{"negative visits", CreateClientRequest{RUT: testRUT, Name: "A", VisitFrequency: intPtr(-1)}, ErrClientValidation},
		{"bad date", CreateClientRequest{RUT: testRUT, Name: "A", DateOfBirth: strPtr("28/04/1990")}, ErrDateFormat},
		{"future date", CreateClientRequest{RUT: testRUT, Name: "A", DateOfBirth: strPtr("2999-01-01")}, ErrClientValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewClientService(newFakeClientRepo(), nil)
			_, err := svc.CreateClient(tt.req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestClientService_UpdateClient(t *testing.T) {
	repo := newFakeClientRepo(testClient(2))
	svc := NewClientService(repo, nil)

	updated, err := svc.UpdateClient(1, UpdateClientRequest{VisitFrequency: intPtr(6), DateOfBirth: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.VisitFrequency)
	assert.Nil(t, updated.DateOfBirth)
	assert.Equal(t, "Camila Rojas", updated.Name)

	_, err = svc.UpdateClient(99, UpdateClientRequest{})
	assert.True(t, errors.Is(err, ErrClientNotFound))
}

func TestClientService_GetClientByRUT_Normalizes(t *testing.T) {
	svc := NewClientService(newFakeClientRepo(testClient(0)), nil)

	client, err := svc.GetClientByRUT(" 12.345.678-5")
	require.NoError(t, err)
	assert.Equal(t, int64(1), client.ID)

	_, err = svc.GetClientByRUT("11.111.111-1")
	assert.True(t, errors.Is(err, ErrClientNotFound))
}

func TestClientService_DeleteClient(t *testing.T) {
	repo := newFakeClientRepo(testClient(0))
	repo.deleteErr = repositories.ErrReferenced
	svc := NewClientService(repo, nil)

	assert.True(t, errors.Is(svc.DeleteClient(1), ErrClientInUse))

	repo.deleteErr = nil
	assert.NoError(t, svc.DeleteClient(1))
	assert.True(t, errors.Is(svc.DeleteClient(1), ErrClientNotFound))
}
