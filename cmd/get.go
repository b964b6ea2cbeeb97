package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var namespace string   // Namespace flag
var allNamespaces bool // Add -A flag

var getCmd = &cobra.Command{
	Use:   "get [namespaces|services|deployments|pods|endpoints]",
	Short: "Get declared resources from the API server",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := namespace
		if allNamespaces {
			target = ""
		} else if target == "" {
			target = "default"
		}

		switch args[0] {
		case "namespaces", "ns":
			printNamespaces()
		case "services", "svc":
			printServices(target)
		case "deployments", "deploy":
			printDeployments(target)
		case "pods", "po":
			printPods(target)
		case "endpoints", "ep":
			if len(args) < 2 {
				fmt.Println("❌ Usage: declctl get endpoints SERVICE -n NAMESPACE")
				return
			}
			printEndpoints(target, args[1])
		default:
			fmt.Printf("❌ Unknown resource type: %s\n", args[0])
		}
	},
}

func printNamespaces() {
	namespaces, err := getClient().ListNamespaces()
	if err != nil {
		fmt.Printf("Failed to list namespaces: %v\n", err)
		return
	}
	if len(namespaces) == 0 {
		fmt.Println("No namespaces found.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUID")
	for _, ns := range namespaces {
		fmt.Fprintf(w, "%s\t%s\n", ns.Metadata.Name, ns.Metadata.UID)
	}
	w.Flush()
}

func printServices(namespace string) {
	services, err := getClient().ListServices(namespace)
	if err != nil {
		fmt.Printf("Failed to list services: %v\n", err)
		return
	}
	if len(services) == 0 {
		if namespace == "" {
			fmt.Println("No services found in any namespace.")
		} else {
			fmt.Printf("No services found in namespace '%s'.\n", namespace)
		}
		return
	}
	if namespace == "" {
		sort.Slice(services, func(i, j int) bool {
			return services[i].Metadata.Namespace < services[j].Metadata.Namespace
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if namespace == "" {
		fmt.Fprintln(w, "NAMESPACE\tNAME\tTYPE\tPORTS\tSELECTOR")
	} else {
		fmt.Fprintln(w, "NAME\tTYPE\tPORTS\tSELECTOR")
	}
	for _, svc := range services {
		ports := []string{}
		for _, p := range svc.Spec.Ports {
			entry := fmt.Sprintf("%d->%d", p.Port, p.EffectiveTargetPort())
			if p.NodePort > 0 {
				entry = fmt.Sprintf("%s:%d", entry, p.NodePort)
			}
			ports = append(ports, entry)
		}
		if namespace == "" {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				svc.Metadata.Namespace, svc.Metadata.Name, svc.Type(),
				strings.Join(ports, ","), formatLabels(svc.Spec.Selector))
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				svc.Metadata.Name, svc.Type(),
				strings.Join(ports, ","), formatLabels(svc.Spec.Selector))
		}
	}
	w.Flush()
}

func printDeployments(namespace string) {
	deployments, err := getClient().ListDeployments(namespace)
	if err != nil {
		fmt.Printf("Failed to list deployments: %v\n", err)
		return
	}
	if len(deployments) == 0 {
		if namespace == "" {
			fmt.Println("No deployments found in any namespace.")
		} else {
			fmt.Printf("No deployments found in namespace '%s'.\n", namespace)
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if namespace == "" {
		fmt.Fprintln(w, "NAMESPACE\tNAME\tREPLICAS\tIMAGE\tSELECTOR")
	} else {
		fmt.Fprintln(w, "NAME\tREPLICAS\tIMAGE\tSELECTOR")
	}
	for _, dep := range deployments {
		image := ""
		if len(dep.Spec.Template.Spec.Containers) > 0 {
			image = dep.Spec.Template.Spec.Containers[0].Image
		}
		if namespace == "" {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				dep.Metadata.Namespace, dep.Metadata.Name, dep.Spec.Replicas,
				image, formatLabels(dep.Spec.Selector.MatchLabels))
		} else {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
				dep.Metadata.Name, dep.Spec.Replicas,
				image, formatLabels(dep.Spec.Selector.MatchLabels))
		}
	}
	w.Flush()
}

func printPods(namespace string) {
	pods, err := getClient().ListPods(namespace)
	if err != nil {
		fmt.Printf("Failed to list pods: %v\n", err)
		return
	}
	if len(pods) == 0 {
		if namespace == "" {
			fmt.Println("No pods found in any namespace.")
		} else {
			fmt.Printf("No pods found in namespace '%s'.\n", namespace)
		}
		return
	}
	if namespace == "" {
		sort.Slice(pods, func(i, j int) bool {
			return pods[i].Metadata.Namespace < pods[j].Metadata.Namespace
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if namespace == "" {
		fmt.Fprintln(w, "NAMESPACE\tNAME\tSTATUS\tDEPLOYMENT\tAGE")
	} else {
		fmt.Fprintln(w, "NAME\tSTATUS\tDEPLOYMENT\tAGE")
	}
	for _, pod := range pods {
		age := "unknown"
		if pod.Status.StartTime != "" {
			if t, err := time.Parse(time.RFC3339, pod.Status.StartTime); err == nil {
				age = time.Since(t).Round(time.Second).String()
			}
		}
		if namespace == "" {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				pod.Metadata.Namespace, pod.Metadata.Name, pod.Status.Phase, pod.Spec.Deployment, age)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				pod.Metadata.Name, pod.Status.Phase, pod.Spec.Deployment, age)
		}
	}
	w.Flush()
}

func printEndpoints(namespace, service string) {
	if namespace == "" {
		namespace = "default"
	}
	endpoints, err := getClient().GetEndpoints(namespace, service)
	if err != nil {
		fmt.Printf("Failed to resolve endpoints: %v\n", err)
		return
	}
	if len(endpoints) == 0 {
		fmt.Printf("Service '%s' resolves to zero endpoints.\n", service)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POD\tPROTOCOL\tPORT\tTARGETPORT\tNODEPORT")
	for _, ep := range endpoints {
		nodePort := "-"
		if ep.NodePort > 0 {
			nodePort = fmt.Sprintf("%d", ep.NodePort)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", ep.PodName, ep.Protocol, ep.Port, ep.TargetPort, nodePort)
	}
	w.Flush()
}

func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, labels[k]))
	}
	return strings.Join(parts, ",")
}

func init() {
	// Add namespace and all-namespaces flags to the get command
	getCmd.Flags().StringVarP(&namespace, "namespace", "n", "default", "Namespace to filter by")
	getCmd.Flags().BoolVarP(&allNamespaces, "all-namespaces", "A", false, "List across all namespaces")
	rootCmd.AddCommand(getCmd)
}
