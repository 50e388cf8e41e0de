package groups

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/unimeet/unimeet/pkg/unimeet/auth"
	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, isAdmin bool) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		Email:        username + "@uni.edu",
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	groupsGroup := r.Group("/api/groups")
	groupsGroup.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(groupsGroup)
	handler.RegisterModerationRoutes(groupsGroup)
	handler.RegisterRequestRoutes(groupsGroup)

	return r
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Username)
	return "Bearer " + token
}

func doRequest(router *gin.Engine, method, path string, body interface{}, user models.User) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		buf = bytes.NewBuffer(jsonBody)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func boolPtr(v bool) *bool { return &v }

func TestCreateGroup(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "creator", false)

	resp := doRequest(router, "POST", "/api/groups", CreateGroupRequest{Name: "Chess Club"}, user)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var response GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &response)
	if response.CreatorUserID != user.ID {
		t.Errorf("Expected creator %d, got %d", user.ID, response.CreatorUserID)
	}
	if !response.IsMember || !response.IsOwner {
		t.Error("Creator should be owner and member of the new group")
	}

	var membership models.GroupMembership
	if err := db.Where("group_id = ? AND user_id = ?", response.ID, user.ID).
		First(&membership).Error; err != nil {
		t.Error("Creator membership row should exist")
	}
}

func TestListMasksPrivateDescriptions(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator", false)
	outsider := createTestUser(t, db, "outsider", false)

	group := models.Group{Name: "Secret", Description: "hidden plans", IsPrivate: true, CreatorUserID: creator.ID}
	db.Create(&group)
	db.Create(&models.GroupMembership{UserID: creator.ID, GroupID: group.ID, Role: models.GroupRoleAdmin})

	resp := doRequest(router, "GET", "/api/groups", nil, outsider)
	var groups []GroupResponse
	json.Unmarshal(resp.Body.Bytes(), &groups)
	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	if groups[0].Description == "hidden plans" {
		t.Error("Private description should be masked for outsiders")
	}

	resp = doRequest(router, "GET", "/api/groups", nil, creator)
	json.Unmarshal(resp.Body.Bytes(), &groups)
	if groups[0].Description != "hidden plans" {
		t.Error("Creator should see the real description")
	}
}

func TestJoinPublicGroup(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator", false)
	joiner := createTestUser(t, db, "joiner", false)

	group := models.Group{Name: "Open", CreatorUserID: creator.ID}
	db.Create(&group)

	resp := doRequest(router, "POST", "/api/groups/1/join", nil, joiner)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body["is_pending"] != false {
		t.Error("Public join should be immediate")
	}

	resp = doRequest(router, "POST", "/api/groups/1/join", nil, joiner)
	if resp.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for double join, got %d", resp.Code)
	}
}

func TestJoinPrivateGroupFlow(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator", false)
	joiner := createTestUser(t, db, "joiner", false)

	group := models.Group{Name: "Closed", IsPrivate: true, CreatorUserID: creator.ID}
	db.Create(&group)

	resp := doRequest(router, "POST", "/api/groups/1/join", nil, joiner)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body["is_pending"] != true {
		t.Error("Private join should create a pending request")
	}

	// No membership until approval.
	var membershipCount int64
	db.Model(&models.GroupMembership{}).Where("user_id = ?", joiner.ID).Count(&membershipCount)
	if membershipCount != 0 {
		t.Error("Requester must not be a member before approval")
	}

	resp = doRequest(router, "POST", "/api/groups/1/join", nil, joiner)
	if resp.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate pending request, got %d", resp.Code)
	}

	// Approve as the creator.
	resp = doRequest(router, "PUT", "/api/groups/1/requests/1",
		HandleJoinRequestRequest{Approve: boolPtr(true)}, creator)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	db.Model(&models.GroupMembership{}).Where("user_id = ?", joiner.ID).Count(&membershipCount)
	if membershipCount != 1 {
		t.Error("Approval should create the membership")
	}

	var request models.GroupJoinRequest
	db.First(&request, 1)
	if request.Status != models.JoinRequestApproved || request.RespondedAt == nil {
		t.Error("Approved request should be stamped")
	}

	// Terminal: cannot resolve again.
	resp = doRequest(router, "PUT", "/api/groups/1/requests/1",
		HandleJoinRequestRequest{Approve: boolPtr(false)}, creator)
	if resp.Code != http.StatusConflict {
		t.Errorf("Expected status 409 re-resolving a handled request, got %d", resp.Code)
	}
}

func TestJoinBanned(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator", false)
	banned := createTestUser(t, db, "banned", false)
	db.Model(&banned).Update("is_banned", true)

	group := models.Group{Name: "Open", CreatorUserID: creator.ID}
	db.Create(&group)

	resp := doRequest(router, "POST", "/api/groups/1/join", nil, banned)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for banned user, got %d", resp.Code)
	}
}

func TestRejectJoinRequest(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator", false)
	joiner := createTestUser(t, db, "joiner", false)

	group := models.Group{Name: "Closed", IsPrivate: true, CreatorUserID: creator.ID}
	db.Create(&group)
	doRequest(router, "POST", "/api/groups/1/join", nil, joiner)

	resp := doRequest(router, "PUT", "/api/groups/1/requests/1",
		HandleJoinRequestRequest{Approve: boolPtr(false)}, creator)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	var membershipCount int64
	db.Model(&models.GroupMembership{}).Where("user_id = ?", joiner.ID).Count(&membershipCount)
	if membershipCount != 0 {
		t.Error("Rejection must not create a membership")
	}

	var request models.GroupJoinRequest
	db.First(&request, 1)
	if request.Status != models.JoinRequestRejected {
		t.Errorf("Expected rejected status, got %s", request.Status)
	}
}

func TestCancelJoinRequest(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator", false)
	joiner := createTestUser(t, db, "joiner", false)
	other := createTestUser(t, db, "other", false)

	group := models.Group{Name: "Closed", IsPrivate: true, CreatorUserID: creator.ID}
	db.Create(&group)
	doRequest(router, "POST", "/api/groups/1/join", nil, joiner)

	resp := doRequest(router, "DELETE", "/api/groups/1/requests/1", nil, other)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 cancelling someone else's request, got %d", resp.Code)
	}

	resp = doRequest(router, "DELETE", "/api/groups/1/requests/1", nil, joiner)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.GroupJoinRequest{}).Count(&count)
	if count != 0 {
		t.Error("Cancelled request should be removed")
	}
}

func TestModerationRequiresCreatorOrAdmin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator", false)
	member := createTestUser(t, db, "member", false)
	admin := createTestUser(t, db, "admin", true)

	group := models.Group{Name: "Chess", CreatorUserID: creator.ID}
	db.Create(&group)
	db.Create(&models.GroupMembership{UserID: creator.ID, GroupID: group.ID, Role: models.GroupRoleAdmin})
	// Even the group-admin role on a plain member does not grant moderation.
	db.Create(&models.GroupMembership{UserID: member.ID, GroupID: group.ID, Role: models.GroupRoleAdmin})

	resp := doRequest(router, "GET", "/api/groups/1/members", nil, member)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for non-creator member, got %d", resp.Code)
	}

	resp = doRequest(router, "GET", "/api/groups/1/members", nil, creator)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 for creator, got %d", resp.Code)
	}

	resp = doRequest(router, "GET", "/api/groups/1/members", nil, admin)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 for global admin, got %d", resp.Code)
	}
}

func TestKickMember(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator", false)
	member := createTestUser(t, db, "member", false)

	group := models.Group{Name: "Chess", CreatorUserID: creator.ID}
	db.Create(&group)
	db.Create(&models.GroupMembership{UserID: creator.ID, GroupID: group.ID, Role: models.GroupRoleAdmin})
	db.Create(&models.GroupMembership{UserID: member.ID, GroupID: group.ID})

	resp := doRequest(router, "DELETE", "/api/groups/1/members/2", nil, creator)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.GroupMembership{}).Where("user_id = ?", member.ID).Count(&count)
	if count != 0 {
		t.Error("Kicked member should lose the membership")
	}

	resp = doRequest(router, "DELETE", "/api/groups/1/members/1", nil, creator)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 kicking the creator, got %d", resp.Code)
	}
}

func TestLeaveGroup(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator", false)
	member := createTestUser(t, db, "member", false)

	group := models.Group{Name: "Chess", CreatorUserID: creator.ID}
	db.Create(&group)
	db.Create(&models.GroupMembership{UserID: member.ID, GroupID: group.ID})

	resp := doRequest(router, "DELETE", "/api/groups/1/leave", nil, member)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	resp = doRequest(router, "DELETE", "/api/groups/1/leave", nil, member)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 leaving twice, got %d", resp.Code)
	}
}

func TestDeleteGroupCommentScoping(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	creator := createTestUser(t, db, "creator", false)
	poster := createTestUser(t, db, "poster", false)

	group := models.Group{Name: "Chess", CreatorUserID: creator.ID}
	db.Create(&group)

	groupPost := models.Post{UserID: poster.ID, Content: "in group", GroupID: &group.ID, CommentsEnabled: true}
	db.Create(&groupPost)
	publicPost := models.Post{UserID: poster.ID, Content: "public", CommentsEnabled: true}
	db.Create(&publicPost)

	inGroup := models.Comment{PostID: groupPost.ID, UserID: poster.ID, Content: "a"}
	db.Create(&inGroup)
	outside := models.Comment{PostID: publicPost.ID, UserID: poster.ID, Content: "b"}
	db.Create(&outside)

	// A comment outside the group is not reachable through group moderation.
	resp := doRequest(router, "DELETE", "/api/groups/1/comments/2", nil, creator)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for a comment outside the group, got %d", resp.Code)
	}

	resp = doRequest(router, "DELETE", "/api/groups/1/comments/1", nil, creator)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}
