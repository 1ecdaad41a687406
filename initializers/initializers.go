package initializers

import (
	"context"
	"time"

	"startupai-backend/config"
	"startupai-backend/fiberlog"
	approvalhandler "startupai-backend/lib/approval"
	expireworker "startupai-backend/lib/approval/expire-worker"
	"startupai-backend/lib/notify"
	sessionhandler "startupai-backend/lib/session"
	workflowclient "startupai-backend/lib/workflow/client"
	resumeredriver "startupai-backend/lib/workflow/resume-redriver"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	workflowclient.NewProvider(
		config.Conf.WorkflowEngine.ResumeURL,
		config.Conf.WorkflowEngine.APIToken,
		time.Duration(config.Conf.WorkflowEngine.TimeoutInSec)*time.Second,
	)
	notify.NewHandler(config.Conf.Smtp.SenderEmail)
	approvalhandler.NewHandler()
	sessionhandler.NewHandler()

	resumeredriver.StartWorker(ctx)
	expireworker.StartWorker(ctx)
}
