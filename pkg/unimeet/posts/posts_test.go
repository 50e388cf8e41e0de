package posts

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

	postsGroup := r.Group("/api/posts")
	postsGroup.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(postsGroup)
	handler.RegisterCommentRoutes(postsGroup)
	handler.RegisterInterestRoutes(postsGroup)

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

func TestCreatePost(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", false)

	resp := doRequest(router, "POST", "/api/posts", CreatePostRequest{Content: "hello campus"}, user)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var response PostResponse
	json.Unmarshal(resp.Body.Bytes(), &response)
	if response.Content != "hello campus" {
		t.Errorf("Expected content to round-trip, got %q", response.Content)
	}
	if !response.CommentsEnabled || !response.InterestEnabled {
		t.Error("Comments and interest should default to enabled")
	}
}

func TestCreatePostInMissingGroup(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", false)

	missing := uint(999)
	resp := doRequest(router, "POST", "/api/posts", CreatePostRequest{Content: "x", GroupID: &missing}, user)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown group, got %d", resp.Code)
	}
}

func TestFeedVisibility(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	member := createTestUser(t, db, "member", false)
	outsider := createTestUser(t, db, "outsider", false)

	group := models.Group{Name: "Chess", CreatorUserID: member.ID, IsPrivate: true}
	db.Create(&group)
	db.Create(&models.GroupMembership{UserID: member.ID, GroupID: group.ID, Role: models.GroupRoleAdmin})

	db.Create(&models.Post{UserID: member.ID, Content: "public", CommentsEnabled: true, InterestEnabled: true})
	db.Create(&models.Post{UserID: member.ID, Content: "group only", GroupID: &group.ID, CommentsEnabled: true, InterestEnabled: true})

	resp := doRequest(router, "GET", "/api/posts/feed", nil, member)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var memberFeed []PostResponse
	json.Unmarshal(resp.Body.Bytes(), &memberFeed)
	if len(memberFeed) != 2 {
		t.Errorf("Member should see both posts, got %d", len(memberFeed))
	}

	resp = doRequest(router, "GET", "/api/posts/feed", nil, outsider)
	var outsiderFeed []PostResponse
	json.Unmarshal(resp.Body.Bytes(), &outsiderFeed)
	if len(outsiderFeed) != 1 {
		t.Fatalf("Outsider should see only the public post, got %d", len(outsiderFeed))
	}
	if outsiderFeed[0].Content != "public" {
		t.Errorf("Wrong post visible to outsider: %q", outsiderFeed[0].Content)
	}
}

func TestCommentThreading(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", false)

	post := models.Post{UserID: user.ID, Content: "hello", CommentsEnabled: true, InterestEnabled: true}
	db.Create(&post)

	resp := doRequest(router, "POST", "/api/posts/1/comments", CreateCommentRequest{Content: "root"}, user)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var root CommentResponse
	json.Unmarshal(resp.Body.Bytes(), &root)

	resp = doRequest(router, "POST", "/api/posts/1/comments",
		CreateCommentRequest{Content: "reply", ParentCommentID: &root.ID}, user)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201 for reply, got %d", resp.Code)
	}

	resp = doRequest(router, "GET", "/api/posts/1", nil, user)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var postResp PostResponse
	json.Unmarshal(resp.Body.Bytes(), &postResp)
	if len(postResp.Comments) != 1 {
		t.Fatalf("Expected 1 root comment, got %d", len(postResp.Comments))
	}
	if len(postResp.Comments[0].Replies) != 1 {
		t.Fatalf("Expected 1 reply under root, got %d", len(postResp.Comments[0].Replies))
	}
	if postResp.Comments[0].Replies[0].Content != "reply" {
		t.Errorf("Wrong reply content: %q", postResp.Comments[0].Replies[0].Content)
	}
}

func TestCommentOnDisabledPost(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", false)

	post := models.Post{UserID: user.ID, Content: "quiet", CommentsEnabled: false}
	db.Create(&post)

	resp := doRequest(router, "POST", "/api/posts/1/comments", CreateCommentRequest{Content: "hi"}, user)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 when comments are disabled, got %d", resp.Code)
	}
}

func TestReplyToForeignParent(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", false)

	postA := models.Post{UserID: user.ID, Content: "a", CommentsEnabled: true}
	db.Create(&postA)
	postB := models.Post{UserID: user.ID, Content: "b", CommentsEnabled: true}
	db.Create(&postB)

	parent := models.Comment{PostID: postA.ID, UserID: user.ID, Content: "on a"}
	db.Create(&parent)

	// Parent belongs to post A, reply targets post B.
	resp := doRequest(router, "POST", "/api/posts/2/comments",
		CreateCommentRequest{Content: "reply", ParentCommentID: &parent.ID}, user)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for a parent on another post, got %d", resp.Code)
	}
}

func TestDeletePostAuthorization(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	author := createTestUser(t, db, "author", false)
	stranger := createTestUser(t, db, "stranger", false)
	admin := createTestUser(t, db, "admin", true)

	post := models.Post{UserID: author.ID, Content: "mine", CommentsEnabled: true}
	db.Create(&post)

	resp := doRequest(router, "DELETE", "/api/posts/1", nil, stranger)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for non-author, got %d", resp.Code)
	}

	resp = doRequest(router, "DELETE", "/api/posts/1", nil, author)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 for author, got %d: %s", resp.Code, resp.Body.String())
	}

	adminPost := models.Post{UserID: author.ID, Content: "also mine", CommentsEnabled: true}
	db.Create(&adminPost)
	resp = doRequest(router, "DELETE", "/api/posts/2", nil, admin)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 for admin, got %d", resp.Code)
	}
}

func TestDeleteCommentCascades(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	author := createTestUser(t, db, "author", false)
	replier := createTestUser(t, db, "replier", false)

	post := models.Post{UserID: author.ID, Content: "hello", CommentsEnabled: true}
	db.Create(&post)
	root := models.Comment{PostID: post.ID, UserID: author.ID, Content: "root"}
	db.Create(&root)
	reply := models.Comment{PostID: post.ID, UserID: replier.ID, Content: "reply", ParentCommentID: &root.ID}
	db.Create(&reply)

	// The replier does not own the root comment.
	resp := doRequest(router, "DELETE", "/api/posts/comments/1", nil, replier)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for non-owner, got %d", resp.Code)
	}

	resp = doRequest(router, "DELETE", "/api/posts/comments/1", nil, author)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	if count != 0 {
		t.Errorf("Replies should be deleted with their parent, %d comments remain", count)
	}
}

func TestInterestLifecycle(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", false)

	post := models.Post{UserID: user.ID, Content: "hello", CommentsEnabled: true, InterestEnabled: true}
	db.Create(&post)

	resp := doRequest(router, "POST", "/api/posts/1/interest", nil, user)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doRequest(router, "POST", "/api/posts/1/interest", nil, user)
	if resp.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate interest, got %d", resp.Code)
	}

	resp = doRequest(router, "DELETE", "/api/posts/1/interest", nil, user)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Code)
	}

	resp = doRequest(router, "DELETE", "/api/posts/1/interest", nil, user)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 when no interest exists, got %d", resp.Code)
	}
}

func TestInterestDisabled(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", false)

	post := models.Post{UserID: user.ID, Content: "hello", InterestEnabled: false}
	db.Create(&post)

	resp := doRequest(router, "POST", "/api/posts/1/interest", nil, user)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 when interest is disabled, got %d", resp.Code)
	}
}
