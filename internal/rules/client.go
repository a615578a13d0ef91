// internal/rules/client.go

// Package rules manages the EventBridge trigger rules that fire the search
// worker on each user's schedule.
package rules

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"tender-scheduler/internal/common/errors"
	"tender-scheduler/internal/common/logger"
	"tender-scheduler/internal/models"
)

// EventBridgeAPI is the slice of the EventBridge client the rule
// lifecycle needs.
type EventBridgeAPI interface {
	ListRules(ctx context.Context, params *eventbridge.ListRulesInput, optFns ...func(*eventbridge.Options)) (*eventbridge.ListRulesOutput, error)
	ListTargetsByRule(ctx context.Context, params *eventbridge.ListTargetsByRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.ListTargetsByRuleOutput, error)
	RemoveTargets(ctx context.Context, params *eventbridge.RemoveTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.RemoveTargetsOutput, error)
	DeleteRule(ctx context.Context, params *eventbridge.DeleteRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.DeleteRuleOutput, error)
	PutRule(ctx context.Context, params *eventbridge.PutRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutRuleOutput, error)
	PutTargets(ctx context.Context, params *eventbridge.PutTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutTargetsOutput, error)
}

type Client struct {
	api    EventBridgeAPI
	logger logger.Logger
}

func NewClient(api EventBridgeAPI, log logger.Logger) *Client {
	return &Client{
		api:    api,
		logger: log,
	}
}

// ListRules returns every rule on the default event bus.
func (c *Client) ListRules(ctx context.Context) ([]models.ScheduleRule, error) {
	var rules []models.ScheduleRule
	var nextToken *string

	for {
		out, err := c.api.ListRules(ctx, &eventbridge.ListRulesInput{
			NextToken: nextToken,
		})
		if err != nil {
			return nil, errors.NewRuleListFailedError(err)
		}

		for _, r := range out.Rules {
			rules = append(rules, models.ScheduleRule{
				Name:           aws.ToString(r.Name),
				CronExpression: aws.ToString(r.ScheduleExpression),
				Enabled:        r.State == ebtypes.RuleStateEnabled,
			})
		}

		nextToken = out.NextToken
		if nextToken == nil {
			break
		}
	}

	return rules, nil
}

// DeleteRuleWithTargets removes a rule's targets and then the rule itself.
// EventBridge refuses to delete a rule that still has targets attached, so
// the order is fixed.
func (c *Client) DeleteRuleWithTargets(ctx context.Context, name string) error {
	targets, err := c.api.ListTargetsByRule(ctx, &eventbridge.ListTargetsByRuleInput{
		Rule: aws.String(name),
	})
	if err != nil {
		return errors.NewRuleCleanupFailedError(name, err)
	}

	if len(targets.Targets) > 0 {
		ids := make([]string, 0, len(targets.Targets))
		for _, t := range targets.Targets {
			ids = append(ids, aws.ToString(t.Id))
		}

		removed, err := c.api.RemoveTargets(ctx, &eventbridge.RemoveTargetsInput{
			Rule: aws.String(name),
			Ids:  ids,
		})
		if err != nil {
			return errors.NewRuleCleanupFailedError(name, err)
		}
		if removed.FailedEntryCount > 0 {
			return errors.NewRuleCleanupFailedError(name, failedEntriesError(removed.FailedEntryCount))
		}
	}

	if _, err := c.api.DeleteRule(ctx, &eventbridge.DeleteRuleInput{
		Name: aws.String(name),
	}); err != nil {
		return errors.NewRuleCleanupFailedError(name, err)
	}

	c.logger.Debug("Deleted trigger rule", map[string]interface{}{
		"ruleName": name,
	})

	return nil
}

// CreateRule creates an enabled rule and attaches its single target.
func (c *Client) CreateRule(ctx context.Context, rule models.ScheduleRule) error {
	if _, err := c.api.PutRule(ctx, &eventbridge.PutRuleInput{
		Name:               aws.String(rule.Name),
		ScheduleExpression: aws.String(rule.CronExpression),
		State:              ebtypes.RuleStateEnabled,
	}); err != nil {
		return errors.NewRuleCreateFailedError(rule.Name, err)
	}

	put, err := c.api.PutTargets(ctx, &eventbridge.PutTargetsInput{
		Rule: aws.String(rule.Name),
		Targets: []ebtypes.Target{
			{
				Id:    aws.String(rule.TargetID),
				Arn:   aws.String(rule.TargetARN),
				Input: aws.String(rule.InputJSON),
			},
		},
	})
	if err != nil {
		return errors.NewRuleCreateFailedError(rule.Name, err)
	}
	if put.FailedEntryCount > 0 {
		return errors.NewRuleCreateFailedError(rule.Name, failedEntriesError(put.FailedEntryCount))
	}

	c.logger.Debug("Created trigger rule", map[string]interface{}{
		"ruleName": rule.Name,
		"cron":     rule.CronExpression,
	})

	return nil
}

func failedEntriesError(count int32) error {
	return fmt.Errorf("%d target entries failed", count)
}
