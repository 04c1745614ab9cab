package auth

import "github.com/gin-gonic/gin"

// CurrentUser = info singkat pemilik token
type CurrentUser struct {
	Subject string
	Role    string
}

const ContextUserKey = "currentUser"

// Helper untuk ambil current user di handler
func GetCurrentUser(c *gin.Context) (CurrentUser, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return CurrentUser{}, false
	}
	cu, ok := v.(CurrentUser)
	return cu, ok
}
