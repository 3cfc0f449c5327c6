package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"profile-backend/internal/bootstrap"
	"profile-backend/internal/shared/config"
)

// lambdaStoreDir is the only writable path inside the Lambda sandbox.
const lambdaStoreDir = "/tmp/profiles"

var (
	initOnce  sync.Once
	initErr   error
	ginLambda *ginadapter.GinLambdaV2
)

func initApp() {
	app, err := bootstrap.Build(lambdaConfig(config.Load()))
	if err != nil {
		initErr = err
		return
	}
	ginLambda = ginadapter.NewV2(app.Router)
}

// lambdaConfig moves the local document store under /tmp. Downloads only work
// on the instance that rendered the PDF, so OBJECT_STORE=s3 is the expected
// setting here.
func lambdaConfig(cfg config.Config) config.Config {
	if cfg.ObjectStoreType != "s3" && !strings.HasPrefix(cfg.LocalStoreDir, "/tmp") {
		log.Printf("lambda: OBJECT_STORE=%s; storing documents under %s", cfg.ObjectStoreType, lambdaStoreDir)
		cfg.LocalStoreDir = lambdaStoreDir
	}
	return cfg
}

func errorResponse(status int, code, message string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       `{"error":{"code":"` + code + `","message":"` + message + `"}}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		log.Printf("bootstrap error: %v", initErr)
		return errorResponse(http.StatusInternalServerError, "bootstrap_failed", "Service failed to start"), initErr
	}
	if ginLambda == nil {
		return errorResponse(http.StatusInternalServerError, "internal_error", "Router not initialized"), nil
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handler)
}
