package utils

import (
	"encoding/json"

	"skillswap-server/models"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// Audit appends a moderation-action record. Failures are ignored; the audit
// trail never blocks the admin operation itself.
func Audit(db *gorm.DB, ctx iris.Context, action, resourceType string, resourceID uint, before, after interface{}) {
	var beforeStr, afterStr string
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			beforeStr = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			afterStr = string(a)
		}
	}

	var adminID uint
	if claims := ContextClaims(ctx); claims != nil {
		adminID = claims.ID
	}

	entry := models.AuditLog{
		AdminUserID:  adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeStr,
		AfterJSON:    afterStr,
		IPAddress:    ClientIP(ctx),
	}
	db.Create(&entry)
}
