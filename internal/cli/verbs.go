// Copyright (c) 2025, Wesley Brown
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/restchain/internal/output"
	"github.com/wesleyorama2/restchain/pkg/jsonpath"
)

func newVerbCmd(verb string) *cobra.Command {
	method := strings.ToUpper(verb)
	return &cobra.Command{
		Use:   verb + " [segment...]",
		Short: fmt.Sprintf("Send a %s request to the chained path", method),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerb(cmd, method, args)
		},
	}
}

func runVerb(cmd *cobra.Command, method string, args []string) error {
	opts, err := readOptions(cmd)
	if err != nil {
		return err
	}

	builder := opts.builder(cmd.ErrOrStderr()).Segments(splitSegments(args)...)
	call := opts.call()
	formatter := output.GetFormatter(opts.format, opts.verbose, opts.noColor)
	out := cmd.OutOrStdout()

	if opts.extract == "" {
		req, err := builder.Prepare(method, call)
		if err != nil {
			return err
		}
		fmt.Fprint(out, formatter.FormatRequest(req))
	}

	ctx := context.Background()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	env, err := builder.Do(ctx, method, call)
	if err != nil {
		return err
	}

	if opts.extract != "" {
		value, err := jsonpath.Extract(env.Body, opts.extract)
		if err != nil {
			return fmt.Errorf("extract %s: %w", opts.extract, err)
		}
		fmt.Fprintln(out, value)
		return nil
	}

	fmt.Fprint(out, formatter.FormatEnvelope(env))
	return nil
}
