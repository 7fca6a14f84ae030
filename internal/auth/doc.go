// Package auth identifies the acting user of every request.
//
// It supports two modes:
//   - "none": single-user deployment, every request acts as DEFAULT_USER_ID
//   - "token": Bearer API tokens, stored as SHA-256 hashes on the user row
//
// # Configuration
//
//	AUTH_MODE=none         # Default
//	AUTH_MODE=token        # Requires a user created with `bookshelf create-user`
//	DEFAULT_USER_ID=1      # Owner id used in "none" mode
//	AUTH_BCRYPT_COST=12    # bcrypt cost factor for passwords
//
// # Usage
//
//	authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
//	router.Use(auth.NewMiddleware(authService, cfg.Auth).Handler())
//
// Extract the owner in handlers:
//
//	userID := auth.GetUserID(c)
package auth
