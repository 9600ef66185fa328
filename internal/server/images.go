package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetImage serves a lesson image by file name. Names with path separators
// are rejected so requests cannot escape the images directory.
func (s *Server) GetImage(c *gin.Context) {
	name := strings.TrimSpace(c.Param("imageName"))
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
		return
	}

	fullPath := filepath.Join(s.cfg.ImagesDir, name)
	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
		return
	}

	c.File(fullPath)
}
