package log

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755

	secondsPerDay = 24 * 60 * 60
)

// UpdateFileFd manages log file rotation based on time and size
// constraints.
//
// Rotation triggers:
//   - Time-based: at a specified hour of day (fileSplitHour)
//   - Size-based: when the file exceeds fileSplitMB megabytes
//
// Returns the file descriptor to write to (the old one when no rotation is
// needed) and the creation timestamp of that file.
func UpdateFileFd(filePath string, fileSplitHour, fileSplitMB int, oldFD *os.File,
	oldFileCreateTime time.Time) (*os.File, time.Time, error) {
	if len(filePath) == 0 {
		return nil, time.Time{}, errors.New("filename is empty")
	}

	shouldRotate, err := checkRotation(filePath, fileSplitHour, fileSplitMB, oldFD, oldFileCreateTime)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("check rotation: %w", err)
	}

	if !shouldRotate {
		return oldFD, oldFileCreateTime, nil
	}

	newFD, newFileCreateTime, err := openLogFile(filePath)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("open new log file: %w", err)
	}

	return newFD, newFileCreateTime, nil
}

// checkRotation determines whether rotation is required, moving the current
// file to its backup name when it is.
func checkRotation(filePath string, fileSplitHour, fileSplitMB int, oldFD *os.File,
	oldFileCreateTime time.Time) (bool, error) {
	if oldFD == nil {
		return true, nil
	}

	now := time.Now()

	fi, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat file: %w", err)
	}

	if shouldRotateByTime(oldFileCreateTime, now, fileSplitHour) {
		if err := moveLogFile(oldFD, filePath, now); err != nil {
			return false, fmt.Errorf("move log file by time: %w", err)
		}
		return true, nil
	}

	if shouldRotateBySize(fi.Size(), fileSplitMB) {
		if err := moveLogFile(oldFD, filePath, now); err != nil {
			return false, fmt.Errorf("move log file by size: %w", err)
		}
		return true, nil
	}

	return false, nil
}

// shouldRotateByTime evaluates time-based rotation: daily rotation when
// crossing a full day, and hour-specific rotation within the same day.
func shouldRotateByTime(createTime, now time.Time, splitHour int) bool {
	if splitHour == 0 {
		return false
	}

	createUnix := createTime.Unix()
	nowUnix := now.Unix()

	if createUnix+secondsPerDay <= nowUnix {
		return true
	}

	if createTime.Day() == now.Day() {
		return now.Hour() >= splitHour && createTime.Hour() < splitHour
	}

	return now.Hour() >= splitHour
}

// shouldRotateBySize reports whether the file size exceeds the rotation
// threshold.
func shouldRotateBySize(size int64, splitMB int) bool {
	if splitMB == 0 {
		return false
	}

	return size >= int64(splitMB)<<20
}

func moveLogFile(oldFD *os.File, filePath string, now time.Time) error {
	if oldFD != nil {
		if err := oldFD.Close(); err != nil {
			return fmt.Errorf("close old file: %w", err)
		}
	}

	newFilePath, err := generateBackupFileName(filePath, now)
	if err != nil {
		return fmt.Errorf("generate backup filename: %w", err)
	}

	if err := os.Rename(filePath, newFilePath); err != nil {
		return fmt.Errorf("rename file: %w", err)
	}

	return nil
}

// generateBackupFileName creates a unique backup filename by appending a
// timestamp, incrementing by one second on collisions.
func generateBackupFileName(filePath string, now time.Time) (string, error) {
	ext := filepath.Ext(filePath)
	baseName := strings.TrimSuffix(filePath, ext)

	for i := 0; i < 5; i++ {
		timestamp := now.Add(time.Duration(i) * time.Second)
		newFilePath := fmt.Sprintf("%s%s.%04d%02d%02d-%02d%02d%02d",
			baseName,
			ext,
			timestamp.Year(),
			timestamp.Month(),
			timestamp.Day(),
			timestamp.Hour(),
			timestamp.Minute(),
			timestamp.Second(),
		)

		if exists, err := fileExists(newFilePath); err != nil {
			return "", fmt.Errorf("check file existence: %w", err)
		} else if !exists {
			return newFilePath, nil
		}
	}

	return "", errors.New("cannot generate unique backup filename")
}

func fileExists(filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat file: %w", err)
}

// openLogFile opens the log file in append mode, creating parent
// directories as needed, and returns its creation timestamp.
func openLogFile(filePath string) (*os.File, time.Time, error) {
	dir := path.Dir(filePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return nil, time.Time{}, fmt.Errorf("create directory: %w", err)
		}
	}

	fd, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("open file: %w", err)
	}

	fileCreateTime, err := getFileCreateTime(filePath)
	if err != nil {
		fd.Close()
		return nil, time.Time{}, fmt.Errorf("get file create time: %w", err)
	}

	if fileCreateTime.UnixNano()%int64(time.Second) > int64(time.Second)/2 {
		fileCreateTime = time.Unix(fileCreateTime.Unix()+1, 0)
	}

	return fd, fileCreateTime, nil
}

// getFileCreateTime falls back to ModTime since Go does not expose creation
// time portably.
func getFileCreateTime(filePath string) (time.Time, error) {
	fi, err := os.Stat(filePath)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}
