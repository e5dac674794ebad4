// Command admin manages administrator flags from the shell. The HTTP API
// requires an existing admin, so the first one is granted here.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"ourcircle/internal/config"
	"ourcircle/internal/database"
	"ourcircle/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "promote":
		setAdmin(db, requireID(), true)
	case "demote":
		setAdmin(db, requireID(), false)
	case "list-admins":
		listAdmins(db)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  admin promote <user_id>     - Grant administrator rights")
	fmt.Println("  admin demote <user_id>      - Revoke administrator rights")
	fmt.Println("  admin list-admins           - List all administrators")
}

func requireID() uint {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}
	id, err := strconv.ParseUint(os.Args[2], 10, 32)
	if err != nil || id == 0 {
		log.Fatalf("Invalid user ID: %s", os.Args[2])
	}
	return uint(id)
}

func setAdmin(db *gorm.DB, userID uint, isAdmin bool) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		log.Fatalf("User %d not found: %v", userID, err)
	}

	if err := db.Model(&user).Update("is_admin", isAdmin).Error; err != nil {
		log.Fatalf("Failed to update user %d: %v", userID, err)
	}

	if isAdmin {
		fmt.Printf("%s (ID %d) is now an administrator\n", user.Username, user.ID)
	} else {
		fmt.Printf("%s (ID %d) is no longer an administrator\n", user.Username, user.ID)
	}
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("is_admin = ?", true).Order("id").Find(&admins).Error; err != nil {
		log.Fatalf("Failed to list administrators: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No administrators found")
		return
	}
	for _, admin := range admins {
		fmt.Printf("%d\t%s\t%s\n", admin.ID, admin.Username, admin.Email)
	}
}
