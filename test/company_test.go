package test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/internal/models"
)

func TestGetCompanyMembers(t *testing.T) {
	app := CreateTestApp()
	token, userID, companyID := memberWithRole(t, app, models.RoleManager)

	collabID, _ := createUser(t, "roster_collab")
	addRole(t, collabID, companyID, models.RoleCollaborator)

	status, result := doJSON(t, app, "GET", fmt.Sprintf("/api/v1/companies/%d", companyID), token, nil)
	require.Equal(t, 200, status)

	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Manager", data["yourRole"])

	company := data["company"].(map[string]interface{})
	assert.Equal(t, companyID, int(company["id"].(float64)))

	members := data["members"].([]interface{})
	require.Len(t, members, 2)
	roles := map[int]string{}
	for _, m := range members {
		member := m.(map[string]interface{})
		roles[int(member["id"].(float64))] = member["role"].(string)
	}
	assert.Equal(t, "Manager", roles[userID])
	assert.Equal(t, "Collaborator", roles[collabID])
}

func TestGetCompanyRequiresMembership(t *testing.T) {
	app := CreateTestApp()
	_, _, companyID := memberWithRole(t, app, models.RoleManager)

	_, email := createUser(t, "outsider")
	outsiderToken := login(t, app, email)

	status, _ := doJSON(t, app, "GET", fmt.Sprintf("/api/v1/companies/%d", companyID), outsiderToken, nil)
	assert.Equal(t, 403, status)
}
