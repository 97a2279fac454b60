package utilities

import "github.com/bellujrb/zkvip-ethglobal/pkg/logger"

func FailOnError(err error, msg string) {
	if err != nil {
		logger.Default().Fatal(err, msg)
	}
}
