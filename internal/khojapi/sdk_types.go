package khojapi

import (
	"fmt"
	"runtime"

	"github.com/khoj-ai/khoj-sync/internal/utils"
	"github.com/khoj-ai/khoj-sync/internal/version"
)

const (
	HeaderClientVersion = "X-Khoj-Client-Version"
	HeaderDeviceID      = "X-Khoj-Device-Id"

	// clientName identifies this tool to the server as a query param.
	clientName = "khoj-sync"
)

var (
	versionString = version.Version
	deviceID      = utils.HWID

	KhojSyncUserAgent = fmt.Sprintf("khoj-sync/%s (%s; %s; %s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)
)
