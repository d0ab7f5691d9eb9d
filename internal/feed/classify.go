package feed

import (
	"strings"

	"github.com/subhashbohra/acloudresume-site/internal/models"
)

// categoryKeywords maps each brand category to the substrings that place an
// update in it. Order matters: the first category with a hit wins, so the
// more specific buckets (Serverless, AI) come before the broad ones.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Serverless", []string{
		"lambda", "serverless", "api gateway", "apigateway", "eventbridge",
		"step functions", "sns", "sqs", "dynamodb streams",
	}},
	{"AI & GenAI", []string{
		"bedrock", "genai", "generative", "llm", "amazon q", "nova",
		"sagemaker", "claude", "titan", "prompt", "rag",
	}},
	{"AI Agents", []string{
		"agent", "agents", "agentic", "tool use", "function calling", "workflow",
	}},
	{"DevOps & Observability", []string{
		"cloudwatch", "x-ray", "opentelemetry", "observability", "grafana",
		"prometheus", "new relic", "datadog", "devops", "codepipeline",
		"codebuild", "codeartifact", "codecommit", "codedeploy",
	}},
	{"Containers & Kubernetes", []string{
		"eks", "kubernetes", "ecs", "fargate", "ecr", "container",
	}},
	{"Security", []string{
		"iam", "kms", "security", "guardduty", "inspector", "waf", "shield",
		"secrets manager",
	}},
	{"Data & Analytics", []string{
		"athena", "glue", "lake formation", "redshift", "emr", "kinesis",
		"msk", "quicksight", "data",
	}},
	{"Databases", []string{
		"rds", "aurora", "dynamodb", "documentdb", "neptune", "timestream",
		"keyspaces", "database",
	}},
	{"Storage", []string{
		"s3", "efs", "fsx", "storage", "backup",
	}},
	{"Networking", []string{
		"vpc", "route 53", "cloudfront", "elb", "alb", "nlb", "network",
		"gateway load balancer", "direct connect",
	}},
}

// Classify maps an update title plus its raw feed categories onto the brand
// category set, falling back to "Other".
func Classify(title string, rawCategories []string) string {
	hay := strings.ToLower(title + " " + strings.Join(rawCategories, " "))
	for _, bucket := range categoryKeywords {
		for _, kw := range bucket.keywords {
			if strings.Contains(hay, kw) {
				return bucket.category
			}
		}
	}
	return models.CategoryOther
}
