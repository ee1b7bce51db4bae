package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	_ "record_service/docs"
)

// @title        Record Service API
// @version      1.0
// @description  음성 녹음 Record 생성, AI 서버 전달, 확인 상태 관리 API
// @BasePath     /
func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
